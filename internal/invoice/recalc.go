// =============================================================================
// billforge - Recalculation Engine
// =============================================================================
//
// Recompute is the single entry point for interactive edits. It is pure:
// given a record and one edit it returns a brand-new, fully consistent
// record and never touches its input. Recomputation order is fixed
// (item amount -> subtotal -> tax -> total) so no caller can ever observe
// partial or stale derived state.
//
// =============================================================================

package invoice

import "fmt"

// EditKind discriminates the three edit operations the engine accepts.
type EditKind string

const (
	// EditItemField targets one field of one line item.
	EditItemField EditKind = "itemField"

	// EditScalarField targets a non-derived top-level field (names,
	// addresses, notes, dates, bill number).
	EditScalarField EditKind = "scalarField"

	// EditTaxRate replaces the tax rate and recomputes tax and total.
	EditTaxRate EditKind = "taxRate"
)

// Edit describes a single field change. Value always travels as a string
// (that is what a form or cell hands us); numeric targets are coerced with
// EnsureNumber, so invalid numeric text degrades to 0 and never raises.
type Edit struct {
	Kind  EditKind `json:"kind"`
	Index int      `json:"index,omitempty"`
	Field string   `json:"field,omitempty"`
	Value string   `json:"value"`
}

// Item fields addressable via EditItemField.
const (
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unitPrice"
)

// Recompute applies one edit and returns the resulting record. The input
// record is never mutated. An unknown edit kind, field name or out-of-range
// item index is reported as an error and leaves the caller's record
// untouched.
func Recompute(rec *Record, edit Edit) (*Record, error) {
	next := rec.Clone()

	switch edit.Kind {
	case EditItemField:
		if edit.Index < 0 || edit.Index >= len(next.Items) {
			return nil, fmt.Errorf("item index %d out of range (record has %d items)", edit.Index, len(next.Items))
		}
		item := &next.Items[edit.Index]
		switch edit.Field {
		case FieldDescription:
			item.Description = edit.Value
			// Description is not a numeric input; totals stay as they are.
			return next, nil
		case FieldQuantity:
			item.Quantity = EnsureNumber(edit.Value)
		case FieldUnitPrice:
			item.UnitPrice = EnsureNumber(edit.Value)
		default:
			return nil, fmt.Errorf("unknown item field %q", edit.Field)
		}
		item.Amount = Mul2(item.Quantity, item.UnitPrice)
		recomputeTotals(next)
		return next, nil

	case EditTaxRate:
		next.TaxRate = EnsureNumber(edit.Value)
		next.TaxAmount = Percent2(next.Subtotal, next.TaxRate)
		next.TotalAmount = Sum2(next.Subtotal, next.TaxAmount)
		return next, nil

	case EditScalarField:
		if err := setScalarField(next, edit.Field, edit.Value); err != nil {
			return nil, err
		}
		return next, nil

	default:
		return nil, fmt.Errorf("unknown edit kind %q", edit.Kind)
	}
}

// recomputeTotals rebuilds subtotal, tax amount and total from the full item
// list and the current tax rate.
func recomputeTotals(rec *Record) {
	amounts := make([]float64, len(rec.Items))
	for i, it := range rec.Items {
		amounts[i] = it.Amount
	}
	rec.Subtotal = Sum2(amounts...)
	rec.TaxAmount = Percent2(rec.Subtotal, rec.TaxRate)
	rec.TotalAmount = Sum2(rec.Subtotal, rec.TaxAmount)
}

// setScalarField assigns a non-derived top-level field. No recomputation is
// triggered; these fields do not feed the totals.
func setScalarField(rec *Record, field, value string) error {
	switch field {
	case "companyName":
		rec.CompanyName = value
	case "companyAddress":
		rec.CompanyAddress = value
	case "companyEmail":
		rec.CompanyEmail = value
	case "companyPhone":
		rec.CompanyPhone = value
	case "taxId":
		rec.TaxID = value
	case "website":
		rec.Website = value
	case "bankName":
		rec.BankName = value
	case "accountNumber":
		rec.AccountNumber = value
	case "bankCode":
		rec.BankCode = value
	case "customerName":
		rec.CustomerName = value
	case "customerCompany":
		rec.CustomerCompany = value
	case "customerEmail":
		rec.CustomerEmail = value
	case "customerPhone":
		rec.CustomerPhone = value
	case "customerAddress":
		rec.CustomerAddress = value
	case "paymentTerms":
		rec.PaymentTerms = value
	case "billNumber":
		rec.BillNumber = value
	case "date":
		rec.Date = value
	case "notes":
		rec.Notes = value
	default:
		return fmt.Errorf("unknown scalar field %q", field)
	}
	return nil
}
