// =============================================================================
// billforge - Money Helpers
// =============================================================================
//
// All currency arithmetic goes through shopspring/decimal so that cents are
// exact; results are surfaced as float64 already rounded to two places.
// Records never hold a value that has not passed through Round2 or
// EnsureNumber.
//
// =============================================================================

package invoice

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds a value to two decimal places using half-up rounding.
// Non-finite input collapses to 0.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Mul2 multiplies two currency values and rounds the product to two decimal
// places. Used for quantity*unitPrice so that e.g. 0.1*3 comes out as 0.30,
// not 0.30000000000000004.
func Mul2(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

// Percent2 returns base*rate/100 rounded to two decimal places.
func Percent2(base, rate float64) float64 {
	f, _ := decimal.NewFromFloat(base).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return f
}

// Sum2 adds a list of currency values and rounds the sum to two decimal
// places.
func Sum2(vs ...float64) float64 {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// thousandsGrouped matches numbers with commas in valid thousands positions
// only, e.g. "1,250.75" but not "1,2".
var thousandsGrouped = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)

// EnsureNumber coerces arbitrary cell or form input to a non-negative
// currency value rounded to two decimal places. Unparseable, non-finite and
// negative input all become 0. This is deliberately lossy: bad numeric input
// degrades silently instead of failing the whole record.
func EnsureNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	// Tolerate thousands separators the way a spreadsheet displays them.
	// Commas anywhere else (a European decimal comma, say) are not
	// reinterpreted; the value coerces to 0 like any other unparseable input.
	if strings.Contains(s, ",") {
		if !thousandsGrouped.MatchString(s) {
			return 0
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return Round2(v)
}

// FormatAmount renders a currency value with exactly two decimal places for
// display and PDF output.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(Round2(v)).StringFixed(2)
}
