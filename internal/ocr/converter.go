package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// pdfPages rasterises every page of an in-memory PDF document.
func pdfPages(ctx context.Context, content []byte) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	images := make([]image.Image, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(pageNum)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", pageNum+1, err)
		}
		images = append(images, img)
	}

	return images, nil
}
