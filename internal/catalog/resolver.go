package catalog

import (
	"context"
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/shopspring/decimal"

	"github.com/clearline/ticket-engine/internal/observability"
)

// Resolution is the outcome of a price lookup. Both fields absent means the
// item could not be resolved; that is the failure signal, not an error.
type Resolution struct {
	URL       *string
	FullPrice *decimal.Decimal
}

// Resolved reports whether a usable price was found.
func (r Resolution) Resolved() bool {
	return r.FullPrice != nil
}

// Resolver looks up an item's authoritative full price via catalog search,
// fuzzy title matching and product page price extraction.
type Resolver struct {
	logger *observability.Logger
	client *Client
}

// NewResolver creates a resolver.
func NewResolver(logger *observability.Logger, client *Client) *Resolver {
	return &Resolver{
		logger: logger,
		client: client,
	}
}

// Resolve finds the full price for an item. Search, fetch and extraction
// failures all degrade to an empty Resolution; nothing is retried.
func (r *Resolver) Resolve(ctx context.Context, name, size string) Resolution {
	query := strings.TrimSpace(fmt.Sprintf("%s %s Mattress", name, size))

	pageURL := r.bestProductURL(ctx, query)
	if pageURL == "" && name != "" {
		pageURL = r.bestProductURL(ctx, name)
	}
	if pageURL == "" {
		r.logger.Debug().Str("query", query).Msg("No product candidates found")
		return Resolution{}
	}

	doc, err := r.client.FetchPage(ctx, pageURL)
	if err != nil {
		r.logger.Warn().Err(err).Str("url", pageURL).Msg("Product page fetch failed")
		return Resolution{}
	}

	price := ExtractFullPrice(doc)
	if price == nil {
		r.logger.Debug().Str("url", pageURL).Msg("No full price found on product page")
		return Resolution{URL: &pageURL}
	}

	r.logger.Debug().
		Str("url", pageURL).
		Str("full_price", price.String()).
		Msg("Resolved full price")

	return Resolution{URL: &pageURL, FullPrice: price}
}

// bestProductURL searches the catalog and picks the candidate whose title
// scores highest against the query under the weighted-ratio fuzzy scorer.
// The first of equal top scores wins.
func (r *Resolver) bestProductURL(ctx context.Context, query string) string {
	cands, err := r.client.Search(ctx, query)
	if err != nil {
		r.logger.Warn().Err(err).Str("query", query).Msg("Catalog search failed")
		return ""
	}
	if len(cands) == 0 {
		return ""
	}

	best := cands[0]
	bestScore := fuzzy.WRatio(query, best.Title)
	for _, cand := range cands[1:] {
		if score := fuzzy.WRatio(query, cand.Title); score > bestScore {
			best = cand
			bestScore = score
		}
	}

	r.logger.Debug().
		Str("query", query).
		Str("title", best.Title).
		Int("score", bestScore).
		Msg("Best catalog match")

	return best.URL
}
