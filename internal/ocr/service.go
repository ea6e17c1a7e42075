package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/clearline/ticket-engine/internal/observability"
)

// ServiceConfig holds text extraction settings.
type ServiceConfig struct {
	TesseractPath string
	PageSegMode   int
	JPEGQuality   int
}

// DefaultServiceConfig returns extraction settings suitable for stock-sheet
// photos.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		TesseractPath: "tesseract",
		PageSegMode:   6,
		JPEGQuality:   95,
	}
}

// Service extracts ordered text lines from uploaded images and PDFs.
type Service struct {
	logger *observability.Logger
	engine TextEngine
	cfg    ServiceConfig
}

// NewService creates a text extraction service backed by the given engine.
func NewService(logger *observability.Logger, engine TextEngine, cfg ServiceConfig) *Service {
	return &Service{
		logger: logger,
		engine: engine,
		cfg:    cfg,
	}
}

// ExtractLines converts an upload into recognised text lines, in page order.
// The filename extension selects the PDF or image decode path.
func (s *Service) ExtractLines(ctx context.Context, content []byte, filename string) ([]string, error) {
	pages, err := s.decodePages(ctx, content, filename)
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "ticket-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	var lines []string
	for i, page := range pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		imagePath := filepath.Join(tempDir, fmt.Sprintf("page-%s.jpg", uuid.NewString()))
		if err := s.savePage(page, imagePath); err != nil {
			return nil, err
		}

		text, err := s.engine.Recognize(ctx, imagePath)
		if err != nil {
			return nil, fmt.Errorf("recognise page %d of %s: %w", i+1, filename, err)
		}

		pageLines := splitLines(text)
		s.logger.Debug().
			Str("file", filename).
			Int("page", i+1).
			Int("lines", len(pageLines)).
			Msg("Page recognised")

		lines = append(lines, pageLines...)
	}

	return lines, nil
}

func (s *Service) decodePages(ctx context.Context, content []byte, filename string) ([]image.Image, error) {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		pages, err := pdfPages(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", filename, err)
		}
		return pages, nil
	}

	img, err := imaging.Decode(bytes.NewReader(content), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filename, err)
	}
	return []image.Image{img}, nil
}

func (s *Service) savePage(page image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create page image: %w", err)
	}
	defer f.Close()

	err = imaging.Encode(f, preprocess(page), imaging.JPEG, imaging.JPEGQuality(s.cfg.JPEGQuality))
	if err != nil {
		return fmt.Errorf("encode page image: %w", err)
	}
	return nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
