package service

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxPrice keeps a price, once converted to float64, well inside the
// products.price column (NUMERIC(20,2)).
var maxPrice = decimal.RequireFromString("999999999999999.99")

// normalizePrice parses a remote price string. Absent, unparsable, negative,
// non-finite and out of range values become 0.
func normalizePrice(raw *string) float64 {
	if raw == nil {
		return 0
	}

	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil || d.IsNegative() {
		return 0
	}

	d = d.Round(2)
	if d.GreaterThan(maxPrice) {
		return 0
	}

	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}

	return f
}
