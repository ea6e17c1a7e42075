package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClearance_KnownValues(t *testing.T) {
	cases := []struct {
		name string
		full string
		want int64
	}{
		{"exact discount lands on 0", "100", 64},     // 60 -> 64
		{"fractional discount rounds up", "99", 64},  // 59.4 -> 60 -> 64
		{"already ends in 4", "90", 54},              // 54 -> 54
		{"just past a 4 boundary", "91", 64},         // 54.6 -> 55 -> 64
		{"pennies in the input", "799.99", 484},      // 479.994 -> 480 -> 484
		{"small price", "10", 14},                    // 6 -> 14
		{"zero", "0", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			full := decimal.RequireFromString(tc.full)
			assert.Equal(t, tc.want, Clearance(full))
		})
	}
}

func TestClearance_Invariants(t *testing.T) {
	// result always ends in 4 and never undercuts the discounted amount
	for i := 0; i <= 2500; i++ {
		full := decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(2)) // 0, 0.5, 1, ...
		got := Clearance(full)

		assert.Equal(t, int64(4), got%10, "full=%s got=%d", full, got)

		floor := full.Mul(decimal.NewFromFloat(0.60)).Ceil().IntPart()
		assert.GreaterOrEqual(t, got, floor, "full=%s got=%d", full, got)
		// rounding up to the next ...4 never moves more than one decade
		assert.Less(t, got-floor, int64(10), "full=%s got=%d", full, got)
	}
}
