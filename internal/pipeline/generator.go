// Package pipeline wires text extraction, item parsing, price resolution,
// clearance pricing and ticket rendering into one generation flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/clearline/ticket-engine/internal/catalog"
	"github.com/clearline/ticket-engine/internal/observability"
	"github.com/clearline/ticket-engine/internal/pricing"
	"github.com/clearline/ticket-engine/internal/stocklist"
	"github.com/clearline/ticket-engine/internal/ticket"
)

// Sentinel errors surfaced to the caller as request-level failures.
var (
	// ErrNoItems means parsing found no mattress lines at all.
	ErrNoItems = errors.New("no mattress lines found")
	// ErrNoPrices means items were found but none resolved to a price.
	ErrNoPrices = errors.New("no prices could be resolved")
)

// Upload is one submitted stock-sheet file.
type Upload struct {
	Filename string
	Content  []byte
}

// Extractor turns upload bytes into recognised text lines.
type Extractor interface {
	ExtractLines(ctx context.Context, content []byte, filename string) ([]string, error)
}

// PriceResolver finds the full catalog price for an item.
type PriceResolver interface {
	Resolve(ctx context.Context, name, size string) catalog.Resolution
}

// Config holds pipeline settings.
type Config struct {
	// MaxConcurrentLookups bounds parallel catalog resolutions. Resolution
	// order never affects output order.
	MaxConcurrentLookups int
}

// DefaultConfig returns pipeline settings suitable for production.
func DefaultConfig() Config {
	return Config{MaxConcurrentLookups: 4}
}

// Generator runs the extraction-to-document pipeline for one request.
type Generator struct {
	logger    *observability.Logger
	extractor Extractor
	resolver  PriceResolver
	builder   *ticket.Builder
	cfg       Config
}

// NewGenerator creates a generator.
func NewGenerator(logger *observability.Logger, extractor Extractor, resolver PriceResolver, builder *ticket.Builder, cfg Config) *Generator {
	if cfg.MaxConcurrentLookups < 1 {
		cfg.MaxConcurrentLookups = 1
	}
	return &Generator{
		logger:    logger,
		extractor: extractor,
		resolver:  resolver,
		builder:   builder,
		cfg:       cfg,
	}
}

// Generate produces the ticket PDF for a set of uploads. Items that fail
// price resolution are dropped silently; extraction failures and an empty
// parse abort the whole request.
func (g *Generator) Generate(ctx context.Context, uploads []Upload, twoUp bool) ([]byte, error) {
	var lines []string
	for _, up := range uploads {
		upLines, err := g.extractor.ExtractLines(ctx, up.Content, up.Filename)
		if err != nil {
			return nil, fmt.Errorf("extract text from %s: %w", up.Filename, err)
		}
		lines = append(lines, upLines...)
	}

	items := stocklist.Parse(lines)
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	g.logger.Info().
		Int("lines", len(lines)).
		Int("items", len(items)).
		Msg("Parsed stock list")

	resolutions := g.resolveAll(ctx, items)

	tickets := make([]ticket.PricedTicket, 0, len(items))
	for i, item := range items {
		res := resolutions[i]
		if !res.Resolved() {
			g.logger.Debug().
				Str("name", item.Name).
				Str("size", item.Size).
				Msg("Dropping item without a resolved price")
			continue
		}

		full := *res.FullPrice
		tickets = append(tickets, ticket.PricedTicket{
			Name:           item.Name,
			Size:           item.Size,
			FullPrice:      full,
			ClearancePrice: pricing.Clearance(full),
		})
	}

	if len(tickets) == 0 {
		return nil, ErrNoPrices
	}

	g.logger.Info().
		Int("tickets", len(tickets)).
		Int("dropped", len(items)-len(tickets)).
		Msg("Rendering ticket document")

	return g.builder.Build(tickets, twoUp)
}

// resolveAll runs price lookups with bounded concurrency. Results land in an
// indexed slice so output order always follows item order.
func (g *Generator) resolveAll(ctx context.Context, items []stocklist.Item) []catalog.Resolution {
	resolutions := make([]catalog.Resolution, len(items))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.cfg.MaxConcurrentLookups)

	for i, item := range items {
		grp.Go(func() error {
			resolutions[i] = g.resolver.Resolve(gctx, item.Name, item.Size)
			return nil
		})
	}

	// resolvers never return errors; failures are empty resolutions
	_ = grp.Wait()

	return resolutions
}
