package ticket

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/clearline/ticket-engine/internal/observability"
)

// BuilderConfig holds document assembly settings.
type BuilderConfig struct {
	// Compress controls PDF stream compression. On in production; tests
	// disable it to inspect page content.
	Compress bool
}

// DefaultBuilderConfig returns production assembly settings.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{Compress: true}
}

// Builder assembles rendered ticket pages into one PDF document.
type Builder struct {
	logger *observability.Logger
	cfg    BuilderConfig
}

// NewBuilder creates a document builder.
func NewBuilder(logger *observability.Logger, cfg BuilderConfig) *Builder {
	return &Builder{
		logger: logger,
		cfg:    cfg,
	}
}

// twoUpScale fits a portrait A4 ticket into half of a landscape A4 sheet:
// 210x297 scaled by sqrt(2)/2 is exactly 148.5x210.
const (
	twoUpScale      = 100 / 1.4142135623730951 // percent
	twoUpSlotWidth  = pageH / 2
)

// Build renders one page per ticket, in order. In two-up mode tickets are
// placed two per landscape sheet at reduced scale; page order and content
// are identical to the single-ticket document.
func (b *Builder) Build(tickets []PricedTicket, twoUp bool) ([]byte, error) {
	b.logger.Debug().
		Int("tickets", len(tickets)).
		Bool("two_up", twoUp).
		Msg("Assembling ticket document")

	if twoUp {
		return b.buildTwoUp(tickets)
	}
	return b.buildSingle(tickets)
}

func (b *Builder) buildSingle(tickets []PricedTicket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(b.cfg.Compress)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, t := range tickets {
		pdf.AddPage()
		drawTicket(pdf, tr, t)
	}

	return output(pdf, len(tickets))
}

func (b *Builder) buildTwoUp(tickets []PricedTicket) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(b.cfg.Compress)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, t := range tickets {
		slot := i % 2
		if slot == 0 {
			pdf.AddPage()
		}

		pdf.TransformBegin()
		pdf.TransformTranslate(float64(slot)*twoUpSlotWidth, 0)
		pdf.TransformScale(twoUpScale, twoUpScale, 0, 0)
		drawTicket(pdf, tr, t)
		pdf.TransformEnd()
	}

	return output(pdf, (len(tickets)+1)/2)
}

func output(pdf *gofpdf.Fpdf, pages int) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write PDF (%d pages): %w", pages, err)
	}
	return buf.Bytes(), nil
}
