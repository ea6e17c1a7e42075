// Package ocr turns uploaded stock-sheet images and PDFs into recognised
// text lines.
package ocr

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// TextEngine recognises text in a single page image.
type TextEngine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// TesseractEngine shells out to the tesseract binary.
type TesseractEngine struct {
	binaryPath  string
	pageSegMode int
}

// NewTesseractEngine creates a tesseract-backed engine. binaryPath may be a
// bare command name resolved via PATH.
func NewTesseractEngine(binaryPath string, pageSegMode int) *TesseractEngine {
	if binaryPath == "" {
		binaryPath = "tesseract"
	}
	return &TesseractEngine{
		binaryPath:  binaryPath,
		pageSegMode: pageSegMode,
	}
}

// Recognize runs tesseract over one image file and returns the raw text.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, e.binaryPath, imagePath, "stdout", "--psm", strconv.Itoa(e.pageSegMode))
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}
