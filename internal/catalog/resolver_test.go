package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline/ticket-engine/internal/observability"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:       srv.URL,
		UserAgent:     "test-agent",
		SearchTimeout: 5 * time.Second,
		FetchTimeout:  5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func testResolver(t *testing.T, srv *httptest.Server) *Resolver {
	t.Helper()
	logger := observability.NewLogger(observability.LogConfig{Level: "error", ServiceName: "test"})
	return NewResolver(logger, testClient(t, srv))
}

func TestClient_Search_FiltersProductLikeLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `<html><body>
			<a href="/products/silentnight-eco">Silentnight Eco Comfort</a>
			<a href="/mattresses/sealy-ortho">Sealy Ortho Plus</a>
			<a href="/help/delivery">Delivery info</a>
			<a href="/products/empty-title"></a>
		</body></html>`)
	}))
	defer srv.Close()

	cands, err := testClient(t, srv).Search(context.Background(), "Silentnight Mattress")
	require.NoError(t, err)

	require.Len(t, cands, 2)
	assert.Equal(t, "Silentnight Eco Comfort", cands[0].Title)
	assert.Equal(t, srv.URL+"/products/silentnight-eco", cands[0].URL)
	assert.Equal(t, "Sealy Ortho Plus", cands[1].Title)
}

func TestClient_Search_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestResolver_Resolve_PicksBestFuzzyMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/products/pillow-top">Sealy Pillow Top Divan Base</a>
			<a href="/products/posturepedic">Sealy Posturepedic Double Mattress</a>
		</body></html>`)
	})
	mux.HandleFunc("/products/posturepedic", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Was £799</p></body></html>`)
	})
	mux.HandleFunc("/products/pillow-top", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Was £199</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res := testResolver(t, srv).Resolve(context.Background(), "Sealy Posturepedic", "Double")

	require.True(t, res.Resolved())
	assert.Equal(t, srv.URL+"/products/posturepedic", *res.URL)
	assertAmount(t, "799", res.FullPrice)
}

func TestResolver_Resolve_RetriesWithBareName(t *testing.T) {
	var queries []string
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		if len(queries) == 1 {
			// first query yields no product-like links
			fmt.Fprint(w, `<html><body><a href="/help">Help</a></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><a href="/products/eco">Eco Comfort Mattress</a></body></html>`)
	})
	mux.HandleFunc("/products/eco", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>RRP £649</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res := testResolver(t, srv).Resolve(context.Background(), "Eco Comfort", "King")

	require.True(t, res.Resolved())
	require.Len(t, queries, 2)
	assert.Equal(t, "Eco Comfort King Mattress", queries[0])
	assert.Equal(t, "Eco Comfort", queries[1])
	assertAmount(t, "649", res.FullPrice)
}

func TestResolver_Resolve_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>No results</body></html>`)
	}))
	defer srv.Close()

	res := testResolver(t, srv).Resolve(context.Background(), "Unknown Brand", "")

	assert.False(t, res.Resolved())
	assert.Nil(t, res.URL)
	assert.Nil(t, res.FullPrice)
}

func TestResolver_Resolve_FetchFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/products/gone">Gone Mattress</a></body></html>`)
	})
	mux.HandleFunc("/products/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res := testResolver(t, srv).Resolve(context.Background(), "Gone", "")

	assert.False(t, res.Resolved())
}

func TestResolver_BestProductURL_TopScoreIsMaximal(t *testing.T) {
	titles := []string{
		"Therapur ActiGel Response Double Mattress",
		"Therapur ActiGel Plus King Mattress",
		"Bedside Table Oak",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>`)
		for i, title := range titles {
			fmt.Fprintf(w, `<a href="/products/p%d">%s</a>`, i, title)
		}
		fmt.Fprint(w, `</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := testResolver(t, srv)
	query := "Therapur ActiGel Response Double Mattress"
	got := r.bestProductURL(context.Background(), query)
	require.NotEmpty(t, got)

	// the chosen candidate's score must be the maximum over all candidates
	cands, err := r.client.Search(context.Background(), query)
	require.NoError(t, err)

	var chosenScore, maxScore int
	for _, c := range cands {
		score := fuzzy.WRatio(query, c.Title)
		if c.URL == got {
			chosenScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}
	assert.Equal(t, maxScore, chosenScore)
}
