// Package main provides the clearance ticket CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clearline/ticket-engine/internal/catalog"
	"github.com/clearline/ticket-engine/internal/config"
	"github.com/clearline/ticket-engine/internal/observability"
	"github.com/clearline/ticket-engine/internal/ocr"
	"github.com/clearline/ticket-engine/internal/pipeline"
	"github.com/clearline/ticket-engine/internal/ticket"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "ticket-cli",
	Short: "Clearance ticket generator for photographed stock lists",
	Long: `ticket-cli turns stock-sheet photos or PDFs into printable A4
clearance tickets.

It runs OCR over the uploads, keeps only the mattress lines, resolves each
item's full price from the catalog, applies the clearance discount, and
renders one ticket page per item.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env if present; real env vars win
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      "console",
			ServiceName: "ticket-cli",
		})

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newGenerateCmd creates the generate subcommand.
func newGenerateCmd() *cobra.Command {
	var (
		output string
		twoUp  bool
	)

	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Generate a ticket PDF from stock-sheet photos or PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			uploads := make([]pipeline.Upload, 0, len(args))
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				uploads = append(uploads, pipeline.Upload{
					Filename: filepath.Base(path),
					Content:  content,
				})
			}

			generator, err := buildGenerator()
			if err != nil {
				return err
			}

			start := time.Now()
			pdf, err := generator.Generate(ctx, uploads, twoUp)
			if err != nil {
				color.New(color.FgRed).Fprintf(os.Stderr, "✗ %v\n", err)
				return err
			}

			if err := os.WriteFile(output, pdf, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			color.New(color.FgGreen).Printf("✓ Wrote %s (%d bytes) in %s\n",
				output, len(pdf), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "tickets.pdf", "output PDF path")
	cmd.Flags().BoolVar(&twoUp, "two-up", false, "render two tickets per A4 landscape sheet")

	return cmd
}

// buildGenerator wires the pipeline from the loaded config.
func buildGenerator() (*pipeline.Generator, error) {
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
		return nil, fmt.Errorf("create catalog client: %w", err)
	}
	resolver := catalog.NewResolver(logger, client)

	builder := ticket.NewBuilder(logger, ticket.DefaultBuilderConfig())

	return pipeline.NewGenerator(logger, extractor, resolver, builder, pipeline.Config{
		MaxConcurrentLookups: cfg.Pipeline.MaxConcurrentLookups,
	}), nil
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ticket-cli version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ticket-cli v1.0.0")
		},
	}
}
