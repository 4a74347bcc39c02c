// =============================================================================
// billforge - Record Validation
// =============================================================================
//
// Pre-render consistency check. Violations are collected, not thrown: the
// caller gets the full list with field context and decides whether to block
// rendering. A record produced by the extractor and the recalculation engine
// should never fail this check; it exists to catch records assembled by hand
// (tests, future callers) before they reach the renderer.
//
// =============================================================================

package invoice

import (
	"fmt"
	"math"
)

// Violation is a single consistency failure with enough context to
// troubleshoot.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks the record's invariants and returns every violation found.
// A nil or empty result means the record is safe to render.
func Validate(rec *Record) []Violation {
	var out []Violation

	if rec.BillNumber == "" {
		out = append(out, Violation{Field: "billNumber", Message: "must not be empty"})
	}

	check := func(field string, v float64) {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			out = append(out, Violation{Field: field, Message: "must be finite"})
		case v < 0:
			out = append(out, Violation{Field: field, Message: "must not be negative"})
		case v != Round2(v):
			out = append(out, Violation{Field: field, Message: "must be rounded to 2 decimal places"})
		}
	}

	amounts := make([]float64, len(rec.Items))
	for i, it := range rec.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		check(prefix+"quantity", it.Quantity)
		check(prefix+"unitPrice", it.UnitPrice)
		check(prefix+"amount", it.Amount)
		amounts[i] = it.Amount
	}
	check("subtotal", rec.Subtotal)
	check("taxRate", rec.TaxRate)
	check("taxAmount", rec.TaxAmount)
	check("totalAmount", rec.TotalAmount)

	if got, want := rec.Subtotal, Sum2(amounts...); got != want {
		out = append(out, Violation{
			Field:   "subtotal",
			Message: fmt.Sprintf("is %s, item amounts sum to %s", FormatAmount(got), FormatAmount(want)),
		})
	}
	if got, want := rec.TaxAmount, Percent2(rec.Subtotal, rec.TaxRate); got != want {
		out = append(out, Violation{
			Field:   "taxAmount",
			Message: fmt.Sprintf("is %s, expected %s from subtotal and tax rate", FormatAmount(got), FormatAmount(want)),
		})
	}
	if got, want := rec.TotalAmount, Sum2(rec.Subtotal, rec.TaxAmount); got != want {
		out = append(out, Violation{
			Field:   "totalAmount",
			Message: fmt.Sprintf("is %s, expected %s", FormatAmount(got), FormatAmount(want)),
		})
	}

	return out
}
