// Package pricing implements the clearance discount rule.
package pricing

import "github.com/shopspring/decimal"

// Locked pricing rule: 60% off, rounded up to the nearest value ending in 4.
const endDigit = 4

var discountRate = decimal.NewFromFloat(0.60)

// Clearance computes the displayed clearance price for a full catalog price.
// The discounted amount is always rounded up, never down, so the result is
// never below 60% of the full price.
func Clearance(full decimal.Decimal) int64 {
	n := full.Mul(discountRate).Ceil().IntPart()

	r := n % 10
	if r <= endDigit {
		return n + (endDigit - r)
	}
	return n + (10 - r) + endDigit
}
