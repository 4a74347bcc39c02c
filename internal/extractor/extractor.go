// =============================================================================
// billforge - Spreadsheet Extractor
// =============================================================================
//
// Reads an uploaded workbook according to the cell layout contract and
// produces a draft invoice record. The extractor is pure with respect to
// application state: it reads nothing but the bytes it is given (the issuer
// profile is overlaid later by the profile merger).
//
// EXTRACTION RULES:
//   - Scalar fields read the cell at their contracted address; empty cells
//     become "" (required display strings get their placeholder during
//     normalization) or 0 for numeric fields.
//   - Dates may arrive as a native date cell or as a raw day-count serial.
//     Both normalize to the same calendar date, formatted for display with
//     the configured layout. Serial conversion counts whole days from the
//     1899-12-30 epoch, which bakes in the historical leap-year quirk
//     (day 60 treated as nonexistent).
//   - An item row is included only if at least one of its four cells is
//     non-empty; blank rows are skipped, not zero-filled.
//   - Item amounts are recomputed from quantity*unitPrice during
//     normalization rather than trusted from the workbook's formula cache.
//   - A missing bill number gets a generated INV-<timestamp> fallback.
//
// =============================================================================

package extractor

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/billforge/billforge/internal/invoice"
	"github.com/billforge/billforge/internal/layout"
)

// DefaultDateFormat is the display layout for dates (dd-mm-yyyy).
const DefaultDateFormat = "02-01-2006"

// serialEpoch is the spreadsheet day-count epoch. 1899-12-30 rather than
// 1899-12-31 absorbs the fictitious 1900-02-29 that day-count 60 refers to.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Options tune extraction. The zero value is usable.
type Options struct {
	// DateFormat is the Go time layout used for display dates.
	// Defaults to DefaultDateFormat.
	DateFormat string

	// Now supplies the clock for generated bill numbers. Defaults to
	// time.Now; tests inject a fixed clock for deterministic output.
	Now invoice.Clock
}

func (o Options) dateFormat() string {
	if o.DateFormat == "" {
		return DefaultDateFormat
	}
	return o.DateFormat
}

// Extract parses workbook bytes into a draft invoice record.
//
// Failure modes:
//   - ErrUnreadableFile when the bytes are not a spreadsheet container;
//   - ErrMalformedTemplate when the workbook has no worksheet to read.
//
// On failure no partial record is returned.
func Extract(data []byte, opts Options) (*invoice.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(layout.SheetIndex)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no worksheet", ErrMalformedTemplate)
	}

	rec := &invoice.Record{
		CompanyName:    textCell(f, sheet, layout.CellCompanyName),
		CompanyAddress: textCell(f, sheet, layout.CellCompanyAddr),
		CompanyEmail:   textCell(f, sheet, layout.CellCompanyEmail),
		CompanyPhone:   textCell(f, sheet, layout.CellCompanyPhone),
		TaxID:          textCell(f, sheet, layout.CellTaxID),
		Website:        textCell(f, sheet, layout.CellWebsite),
		BankName:       textCell(f, sheet, layout.CellBankName),
		AccountNumber:  textCell(f, sheet, layout.CellAccountNumber),
		BankCode:       textCell(f, sheet, layout.CellBankCode),

		CustomerName:    textCell(f, sheet, layout.CellCustomerName),
		CustomerCompany: textCell(f, sheet, layout.CellCustomerCompany),
		CustomerEmail:   textCell(f, sheet, layout.CellCustomerEmail),
		CustomerPhone:   textCell(f, sheet, layout.CellCustomerPhone),
		CustomerAddress: textCell(f, sheet, layout.CellCustomerAddr),
		PaymentTerms:    textCell(f, sheet, layout.CellPaymentTerms),

		BillNumber: textCell(f, sheet, layout.CellBillNumber),
		Date:       dateCell(f, sheet, layout.CellDate, opts.dateFormat()),
		Notes:      textCell(f, sheet, layout.CellNotes),

		TaxRate: numberCell(f, sheet, layout.CellTaxRate),
	}

	if rec.BillNumber == "" {
		rec.BillNumber = invoice.FallbackBillNumber(opts.Now)
	}

	for row := layout.ItemStartRow; row <= layout.ItemEndRow; row++ {
		desc := classify(f, sheet, layout.ItemCell(layout.ColDescription, row))
		qty := classify(f, sheet, layout.ItemCell(layout.ColQuantity, row))
		price := classify(f, sheet, layout.ItemCell(layout.ColUnitPrice, row))
		amount := classify(f, sheet, layout.ItemCell(layout.ColAmount, row))

		if desc.IsEmpty() && qty.IsEmpty() && price.IsEmpty() && amount.IsEmpty() {
			continue
		}

		rec.Items = append(rec.Items, invoice.LineItem{
			Description: desc.Text,
			Quantity:    invoice.EnsureNumber(qty.Text),
			UnitPrice:   invoice.EnsureNumber(price.Text),
			Amount:      invoice.EnsureNumber(amount.Text),
		})
	}

	rec.Normalize()
	return rec, nil
}

// textCell reads a cell as display text; empty cells become "".
func textCell(f *excelize.File, sheet, addr string) string {
	return classify(f, sheet, addr).Text
}

// numberCell reads a cell as a currency value with the documented lossy
// coercion (unparseable or negative -> 0).
func numberCell(f *excelize.File, sheet, addr string) float64 {
	v := classify(f, sheet, addr)
	if v.Kind == KindNumber && v.Number >= 0 {
		return invoice.Round2(v.Number)
	}
	return invoice.EnsureNumber(v.Text)
}

// dateCell normalizes the two supported date encodings to one display
// string. Native date cells format directly; numeric cells are treated as
// day-count serials from the 1899-12-30 epoch; anything else passes through
// as the text the author typed.
func dateCell(f *excelize.File, sheet, addr, format string) string {
	v := classify(f, sheet, addr)
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindDate:
		return v.Time.Format(format)
	case KindNumber:
		return dateFromSerial(v.Number).Format(format)
	default:
		return v.Text
	}
}

// dateFromSerial converts a day-count serial to a calendar date. Fractional
// day parts (time of day) are discarded.
func dateFromSerial(serial float64) time.Time {
	return serialEpoch.AddDate(0, 0, int(math.Floor(serial)))
}
