// Package ticket renders clearance price tickets and assembles them into a
// printable PDF document.
package ticket

import (
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// PricedTicket holds everything needed to render one ticket page.
type PricedTicket struct {
	Name           string
	Size           string
	FullPrice      decimal.Decimal
	ClearancePrice int64
}

// Description composes the ticket body text. Size is omitted when the parser
// could not recognise one.
func (t PricedTicket) Description() string {
	parts := []string{t.Name, t.Size, "Mattress"}
	joined := strings.Join(parts, " ")
	return strings.Join(strings.Fields(joined), " ")
}

// Locked layout. Page geometry in mm, font sizes in points.
const (
	pageW = 210.0 // A4 portrait
	pageH = 297.0

	pageMargin = 15.0
	boxGap     = 8.0
	priceBoxH  = 85.0
	descBoxH   = 40.0
	reasonBoxH = 90.0

	boxLineW = 0.7 // 2pt

	wasFontSize      = 23.0
	wasPriceFontSize = 23.0
	nowFontSize      = 27.0
	bigPriceFontSize = 63.0
	headingFontSize  = 12.0
	bodyFontSize     = 18.0
	promptFontSize   = 11.0

	checkboxSize   = 6.0
	checkboxGap    = 4.0
	checkboxColGap = 85.0
	checkboxRowGap = 14.0
)

// drawTicket draws one ticket at the page origin of pdf. tr translates UTF-8
// strings into the core-font codepage so the currency symbol renders.
func drawTicket(pdf *gofpdf.Fpdf, tr func(string) string, t PricedTicket) {
	left := pageMargin
	boxW := pageW - 2*pageMargin

	// Price box
	top := pageMargin
	pdf.SetLineWidth(boxLineW)
	pdf.Rect(left, top, boxW, priceBoxH, "D")

	pdf.SetFont("Helvetica", "B", wasFontSize)
	xWas := left + 10
	yWas := top + 18
	pdf.Text(xWas, yWas, "WAS")
	wasWidth := pdf.GetStringWidth("WAS")

	pdf.SetFont("Helvetica", "B", wasPriceFontSize)
	wasText := tr(formatGBP(t.FullPrice.Round(0).IntPart()))
	pdf.Text(xWas+wasWidth+13, yWas, wasText)

	pdf.SetFont("Helvetica", "B", nowFontSize)
	pdf.Text(left+10, top+32, "NOW")

	pdf.SetFont("Helvetica", "B", bigPriceFontSize)
	nowText := tr(formatGBP(t.ClearancePrice))
	pdf.Text(left+(boxW-pdf.GetStringWidth(nowText))/2, top+56, nowText)

	// Description box
	descTop := top + priceBoxH + boxGap
	pdf.Rect(left, descTop, boxW, descBoxH, "D")

	pdf.SetFont("Helvetica", "B", headingFontSize)
	pdf.Text(left+8, descTop+12, "Description")

	pdf.SetFont("Helvetica", "B", bodyFontSize)
	desc := t.Description()
	lines := wrapWords(desc, boxW-16, func(s string) float64 {
		return pdf.GetStringWidth(tr(s))
	})
	y := descTop + 22
	for _, line := range lines {
		pdf.Text(left+8, y, tr(line))
		y += 8
	}

	// Reason box
	reasonTop := descTop + descBoxH + boxGap
	pdf.Rect(left, reasonTop, boxW, reasonBoxH, "D")

	pdf.SetFont("Helvetica", "B", headingFontSize)
	pdf.Text(left+8, reasonTop+12, "Reason for clearance")

	pdf.SetFont("Helvetica", "", headingFontSize)
	x1 := left + 8
	x2 := x1 + checkboxColGap
	row1Bottom := reasonTop + 24
	row2Bottom := row1Bottom + checkboxRowGap
	row1Top := row1Bottom - checkboxSize
	row2Top := row2Bottom - checkboxSize

	pdf.Rect(x1, row1Top, checkboxSize, checkboxSize, "D")
	pdf.Text(x1+checkboxSize+checkboxGap, row1Bottom-1, "Ex-display model")

	pdf.Rect(x2, row1Top, checkboxSize, checkboxSize, "D")
	pdf.Text(x2+checkboxSize+checkboxGap, row1Bottom-1, "Ex-comfort exchange")

	pdf.Rect(x1, row2Top, checkboxSize, checkboxSize, "D")
	pdf.Text(x1+checkboxSize+checkboxGap, row2Bottom-1, "Other")

	pdf.Rect(x2, row2Top, checkboxSize, checkboxSize, "D")
	pdf.Text(x2+checkboxSize+checkboxGap, row2Bottom-1, "Discontinued Stock")

	pdf.SetFont("Helvetica", "", promptFontSize)
	pdf.Text(left+8, reasonTop+reasonBoxH-16, "Other Text Here")

	// Mattress tickets mark Ex-display; anything else marks Other. The
	// parser only admits mattress lines, so Ex-display is the standing
	// business default.
	if strings.Contains(strings.ToLower(desc), "mattress") {
		drawCheckmark(pdf, x1, row1Top, checkboxSize)
	} else {
		drawCheckmark(pdf, x1, row2Top, checkboxSize)
	}
}

// drawCheckmark draws a two-segment tick inside a checkbox whose top-left
// corner is at (x, y).
func drawCheckmark(pdf *gofpdf.Fpdf, x, y, size float64) {
	pdf.SetLineWidth(boxLineW)
	pdf.Line(x+1, y+size-3, x+2.5, y+size-1)
	pdf.Line(x+2.5, y+size-1, x+size-1, y+1)
}

// wrapWords greedily fills lines: words accumulate while the measured width
// stays within maxWidth; the word that would overflow starts the next line.
// The final partial line is always committed.
func wrapWords(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := ""
	for _, word := range words {
		test := strings.TrimSpace(line + " " + word)
		if measure(test) <= maxWidth {
			line = test
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}

	return lines
}

// formatGBP renders an integer amount with thousands separators and the
// currency symbol.
func formatGBP(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}

	out := "£" + sb.String()
	if neg {
		out = "-" + out
	}
	return out
}
