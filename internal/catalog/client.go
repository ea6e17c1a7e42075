// Package catalog resolves stock items to authoritative list prices from the
// external product catalog.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ClientConfig holds catalog access settings.
type ClientConfig struct {
	BaseURL       string
	UserAgent     string
	SearchTimeout time.Duration
	FetchTimeout  time.Duration
}

// DefaultClientConfig returns the catalog settings used in production.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:       "https://www.dreams.co.uk",
		UserAgent:     "Mozilla/5.0 (compatible; ClearanceTickets/1.0)",
		SearchTimeout: 20 * time.Second,
		FetchTimeout:  25 * time.Second,
	}
}

// Client fetches catalog search results and product pages. Safe for
// concurrent use; the underlying http.Client is shared across lookups.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cfg        ClientConfig
}

// NewClient creates a catalog client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base URL: %w", err)
	}

	return &Client{
		httpClient: &http.Client{},
		baseURL:    base,
		cfg:        cfg,
	}, nil
}

// Candidate is a product-like search result link.
type Candidate struct {
	Title string
	URL   string
}

// productLikePath marks anchors that plausibly point at a product page.
var productLikePath = regexp.MustCompile(`(?i)/products?/|/mattress`)

// Search queries the catalog search endpoint and returns product-like result
// links. A non-success status or empty result page yields no candidates.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", strings.TrimRight(c.cfg.BaseURL, "/"), url.QueryEscape(query))

	doc, err := c.get(ctx, searchURL, c.cfg.SearchTimeout)
	if err != nil {
		return nil, err
	}

	var cands []Candidate
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		title := strings.TrimSpace(a.Text())
		href, _ := a.Attr("href")
		if title == "" || href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := c.baseURL.ResolveReference(ref)

		if !productLikePath.MatchString(abs.Path) {
			return
		}

		cands = append(cands, Candidate{Title: title, URL: abs.String()})
	})

	return cands, nil
}

// FetchPage retrieves a product page.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	return c.get(ctx, pageURL, c.cfg.FetchTimeout)
}

func (c *Client) get(ctx context.Context, rawURL string, timeout time.Duration) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	return doc, nil
}
