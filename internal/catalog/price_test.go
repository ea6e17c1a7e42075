package catalog

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAmount(t *testing.T, want string, got *decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.NotNil(t, got, msgAndArgs...)
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		"want %s, got %s", want, got.String())
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractFullPrice_JSONLDListPrice(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{"@type":"Product","offers":{"listPrice":"1,299.00","price":"779"}}
	</script></head><body></body></html>`)

	assertAmount(t, "1299", ExtractFullPrice(doc))
}

func TestExtractFullPrice_JSONLDPreDiscountPrice(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{"@type":["Product","Thing"],"offers":[{"priceSpecification":{"preDiscountPrice":899.5},"price":"539"}]}
	</script></head><body></body></html>`)

	assertAmount(t, "899.5", ExtractFullPrice(doc))
}

func TestExtractFullPrice_JSONLDPlainPriceFallback(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{"@graph":[{"@type":"WebPage"},{"@type":"Product","offers":{"price":"649"}}]}
	</script></head><body></body></html>`)

	assertAmount(t, "649", ExtractFullPrice(doc))
}

func TestExtractFullPrice_ZeroStructuredPriceSkipped(t *testing.T) {
	// A zero structured price is not a valid amount; the chain keeps going.
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{"@type":"Product","offers":{"listPrice":"0"}}
	</script></head><body><p>RRP £749</p></body></html>`)

	assertAmount(t, "749", ExtractFullPrice(doc))
}

func TestExtractFullPrice_LabelledAmount(t *testing.T) {
	for _, label := range []string{"RRP", "Was", "List", "rrp"} {
		doc := mustDoc(t, `<html><body><div>`+label+` £1,099</div></body></html>`)

		assertAmount(t, "1099", ExtractFullPrice(doc), label)
	}
}

func TestExtractFullPrice_BareCurrencyAmount(t *testing.T) {
	doc := mustDoc(t, `<html><body><span>Our price</span><span>£479.00</span></body></html>`)

	assertAmount(t, "479", ExtractFullPrice(doc))
}

func TestExtractFullPrice_NothingFound(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>Out of stock</p></body></html>`)
	assert.Nil(t, ExtractFullPrice(doc))
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,299.00", "1299", true},
		{"799", "799", true},
		{"£849.99", "849.99", true},
		{"around 649 pounds", "649", true},
		{"0", "", false},
		{"", "", false},
		{"n/a", "", false},
	}

	for _, tc := range cases {
		got := parseAmount(tc.in)
		if !tc.ok {
			assert.Nil(t, got, tc.in)
			continue
		}
		assertAmount(t, tc.want, got, tc.in)
	}
}
