// Package amount converts between decimal strings and decimal values.
//
// Amounts cross every boundary as strings. Arithmetic happens on
// decimal.Decimal. Sums and products are rendered exactly with Exact;
// quotients such as prices and percentages are rounded with Format.
package amount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept in formatted amounts
const Precision = 7

var hundred = decimal.NewFromInt(100)

// Parse parses a decimal string such as "1000" or "0.5"
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// OrZero parses s, treating missing or unparsable values as zero
func OrZero(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Must parses a fixture literal and panics on failure
func Must(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Format renders d rounded to Precision digits without trailing zeros
func Format(d decimal.Decimal) string {
	return d.Round(Precision).String()
}

// Exact renders d at full precision without trailing zeros. Use it for
// values derived from inputs by addition and multiplication, so that
// proportional inputs stay proportional at any scale.
func Exact(d decimal.Decimal) string {
	return d.String()
}

// Percent returns d × pct / 100
func Percent(d, pct decimal.Decimal) decimal.Decimal {
	return d.Mul(pct).Div(hundred)
}

// Ratio returns part / whole × 100, or zero when whole is zero
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
