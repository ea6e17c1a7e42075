// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clearline/ticket-engine/cmd/ticket-api/handlers"
	"github.com/clearline/ticket-engine/cmd/ticket-api/middleware"
	"github.com/clearline/ticket-engine/internal/catalog"
	"github.com/clearline/ticket-engine/internal/config"
	"github.com/clearline/ticket-engine/internal/observability"
	"github.com/clearline/ticket-engine/internal/ocr"
	"github.com/clearline/ticket-engine/internal/pipeline"
	"github.com/clearline/ticket-engine/internal/ticket"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config) (http.Handler, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"ticket-engine"}`))
	})

	// Create service dependencies
	engine := ocr.NewTesseractEngine(cfg.OCR.TesseractPath, cfg.OCR.PageSegMode)
	extractor := ocr.NewService(logger, engine, ocr.ServiceConfig{
		TesseractPath: cfg.OCR.TesseractPath,
		PageSegMode:   cfg.OCR.PageSegMode,
		JPEGQuality:   cfg.OCR.JPEGQuality,
	})

	client, err := catalog.NewClient(catalog.ClientConfig{
		BaseURL:       cfg.Catalog.BaseURL,
		UserAgent:     cfg.Catalog.UserAgent,
		SearchTimeout: cfg.Catalog.SearchTimeout,
		FetchTimeout:  cfg.Catalog.FetchTimeout,
	})
	if err != nil {
		return nil, err
	}
	resolver := catalog.NewResolver(logger, client)

	builder := ticket.NewBuilder(logger, ticket.DefaultBuilderConfig())

	generator := pipeline.NewGenerator(logger, extractor, resolver, builder, pipeline.Config{
		MaxConcurrentLookups: cfg.Pipeline.MaxConcurrentLookups,
	})

	// Initialize handlers
	generateHandler := handlers.NewGenerateHandler(logger, generator, cfg.Server.MaxUploadBytes)

	r.Get("/", handlers.Index)
	r.Post("/generate", generateHandler.Generate)

	return r, nil
}
