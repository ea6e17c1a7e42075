package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/clearline/ticket-engine/internal/observability"
	"github.com/clearline/ticket-engine/internal/pipeline"
)

// TicketGenerator produces a ticket PDF from uploaded stock sheets.
type TicketGenerator interface {
	Generate(ctx context.Context, uploads []pipeline.Upload, twoUp bool) ([]byte, error)
}

// GenerateHandler handles ticket generation requests.
type GenerateHandler struct {
	logger         *observability.Logger
	generator      TicketGenerator
	maxUploadBytes int64
}

// NewGenerateHandler creates a new generation handler.
func NewGenerateHandler(logger *observability.Logger, generator TicketGenerator, maxUploadBytes int64) *GenerateHandler {
	return &GenerateHandler{
		logger:         logger,
		generator:      generator,
		maxUploadBytes: maxUploadBytes,
	}
}

// Generate accepts multipart uploads and responds with the rendered PDF.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart upload.", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		http.Error(w, "No files uploaded.", http.StatusBadRequest)
		return
	}

	uploads := make([]pipeline.Upload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "Could not read uploaded file.", http.StatusBadRequest)
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "Could not read uploaded file.", http.StatusBadRequest)
			return
		}
		uploads = append(uploads, pipeline.Upload{Filename: fh.Filename, Content: content})
	}

	twoUp := r.FormValue("two_up") != ""

	pdf, err := h.generator.Generate(r.Context(), uploads, twoUp)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrNoItems):
			http.Error(w, "No mattress lines found.", http.StatusBadRequest)
		case errors.Is(err, pipeline.ErrNoPrices):
			http.Error(w, "No prices could be resolved.", http.StatusUnprocessableEntity)
		default:
			h.logger.Error().Err(err).Msg("Ticket generation failed")
			http.Error(w, "Ticket generation failed.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename=tickets.pdf`)
	w.Write(pdf)
}
