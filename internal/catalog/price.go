package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// Price extraction runs an ordered chain of strategies against the product
// page; the first strategy to produce a valid amount wins. Structured product
// data is most reliable, then a labelled "RRP/Was/List" amount in the page
// text, then any bare currency amount of plausible magnitude.
type priceExtractor func(doc *goquery.Document) *decimal.Decimal

var priceExtractors = []priceExtractor{
	structuredDataPrice,
	labelledPrice,
	bareCurrencyPrice,
}

// ExtractFullPrice pulls the un-discounted list price from a product page.
// Returns nil when no strategy finds a usable amount.
func ExtractFullPrice(doc *goquery.Document) *decimal.Decimal {
	for _, extract := range priceExtractors {
		if v := extract(doc); v != nil {
			return v
		}
	}
	return nil
}

// structuredDataPrice reads JSON-LD product data. For a Product entity the
// offer's listPrice is preferred, then priceSpecification.preDiscountPrice,
// then the plain price field.
func structuredDataPrice(doc *goquery.Document) *decimal.Decimal {
	var price *decimal.Decimal

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}

		for _, product := range collectProducts(data) {
			if v := productListPrice(product); v != nil {
				price = v
				return false
			}
		}
		return true
	})

	return price
}

// collectProducts walks a JSON-LD value and gathers every entity typed as
// Product, including entries nested in arrays or an @graph.
func collectProducts(data interface{}) []map[string]interface{} {
	var products []map[string]interface{}

	switch v := data.(type) {
	case []interface{}:
		for _, item := range v {
			products = append(products, collectProducts(item)...)
		}
	case map[string]interface{}:
		if isProductType(v["@type"]) {
			products = append(products, v)
		}
		if graph, ok := v["@graph"]; ok {
			products = append(products, collectProducts(graph)...)
		}
	}

	return products
}

func isProductType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == "Product"
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

// productListPrice applies the offer field preference order to one Product.
func productListPrice(product map[string]interface{}) *decimal.Decimal {
	offers := normalizeOffers(product["offers"])

	for _, offer := range offers {
		if raw, ok := offer["listPrice"]; ok {
			if v := parseAmount(stringify(raw)); v != nil {
				return v
			}
		}
		if ps, ok := offer["priceSpecification"].(map[string]interface{}); ok {
			if raw, ok := ps["preDiscountPrice"]; ok {
				if v := parseAmount(stringify(raw)); v != nil {
					return v
				}
			}
		}
	}

	for _, offer := range offers {
		if raw, ok := offer["price"]; ok {
			if v := parseAmount(stringify(raw)); v != nil {
				return v
			}
		}
	}

	return nil
}

func normalizeOffers(raw interface{}) []map[string]interface{} {
	switch v := raw.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}
	case []interface{}:
		offers := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				offers = append(offers, m)
			}
		}
		return offers
	}
	return nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", val), "0"), ".")
	default:
		return fmt.Sprintf("%v", v)
	}
}

var (
	labelledPricePattern = regexp.MustCompile(`(?i)(RRP|Was|List)\s*[:£$€]?\s*([0-9][0-9.,]+)`)
	bareCurrencyPattern  = regexp.MustCompile(`[£$€]\s*([0-9]{2,4}(?:[.,][0-9]{2})?)`)
	embeddedAmount       = regexp.MustCompile(`([0-9]+(?:\.[0-9]{1,2})?)`)
)

// labelledPrice scans visible page text for an amount labelled RRP, Was or
// List.
func labelledPrice(doc *goquery.Document) *decimal.Decimal {
	m := labelledPricePattern.FindStringSubmatch(pageText(doc))
	if m == nil {
		return nil
	}
	return parseAmount(m[2])
}

// bareCurrencyPrice takes the first currency-prefixed number of plausible
// magnitude (2-4 integer digits).
func bareCurrencyPrice(doc *goquery.Document) *decimal.Decimal {
	m := bareCurrencyPattern.FindStringSubmatch(pageText(doc))
	if m == nil {
		return nil
	}
	return parseAmount(m[1])
}

func pageText(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "script" || goquery.NodeName(s) == "style" {
			return
		}
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if t := strings.TrimSpace(c.Text()); t != "" {
					sb.WriteString(t)
					sb.WriteByte(' ')
				}
			}
		})
	})
	if sb.Len() == 0 {
		return doc.Text()
	}
	return sb.String()
}

// parseAmount validates a raw price candidate. Thousands separators are
// stripped before parsing; if a direct parse fails, the first embedded
// numeric substring is used. Zero or unparseable amounts are rejected.
func parseAmount(s string) *decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		m := embeddedAmount.FindStringSubmatch(s)
		if m == nil {
			return nil
		}
		v, err = decimal.NewFromString(m[1])
		if err != nil {
			return nil
		}
	}

	if v.IsZero() || v.IsNegative() {
		return nil
	}
	return &v
}
