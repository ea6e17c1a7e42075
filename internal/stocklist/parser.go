// Package stocklist turns recognised stock-sheet lines into structured items.
package stocklist

import (
	"regexp"
	"strings"
)

// Item identifies a single mattress line from a stock sheet.
type Item struct {
	Name string
	Size string
}

// sizeMarkers maps the shorthand used on stock sheets to the full size label.
var sizeMarkers = map[string]string{
	"S":   "Single",
	"D":   "Double",
	"K":   "King",
	"SK":  "Super King",
	"4'0": "Small Double",
	"4’0": "Small Double",
}

var (
	leadingRowNumber = regexp.MustCompile(`^[0-9-]+\s+`)
	ocrArtifact      = regexp.MustCompile(`(?i)oOo\s*`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	trailingNoise    = regexp.MustCompile(`\s+([0-9]+|["'\\/%-]+)\s*$`)
	sizeMarker       = regexp.MustCompile(`(?i)\b(SK|S|D|K|4'0|4’0)\b\s+Mattress\b`)
	trailingMattress = regexp.MustCompile(`(?i)\s*Mattress\s*$`)
)

const edgeTrimSet = " |\\/:;\"'`{}[]()"

// CleanLine normalises a raw recognised line: row-number prefixes, OCR
// artifacts, whitespace runs, one trailing price/quantity token and stray
// bracketing are removed. Cleaning an already-clean line is a no-op.
func CleanLine(line string) string {
	line = leadingRowNumber.ReplaceAllString(line, "")
	line = ocrArtifact.ReplaceAllString(line, "")
	line = strings.TrimSpace(whitespaceRun.ReplaceAllString(line, " "))
	line = trailingNoise.ReplaceAllString(line, "")
	return strings.Trim(line, edgeTrimSet)
}

// Parse extracts mattress items from recognised text lines. Lines that do not
// mention "mattress" are skipped entirely. Duplicate (name, size) pairs
// collapse to the first occurrence; input order is preserved.
func Parse(lines []string) []Item {
	var items []Item
	seen := make(map[Item]struct{})

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Only mattress lines are auto-selected. Hard business rule.
		if !strings.Contains(strings.ToLower(line), "mattress") {
			continue
		}

		line = CleanLine(line)

		var item Item
		if loc := sizeMarker.FindStringSubmatchIndex(line); loc != nil {
			marker := strings.ToUpper(line[loc[2]:loc[3]])
			size, ok := sizeMarkers[marker]
			if !ok {
				size = marker
			}
			item = Item{
				Name: strings.TrimSpace(line[:loc[0]]),
				Size: size,
			}
		} else {
			item = Item{
				Name: strings.TrimSpace(trailingMattress.ReplaceAllString(line, "")),
			}
		}

		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}

	return items
}
