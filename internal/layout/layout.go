// =============================================================================
// billforge - Cell Layout Contract
// =============================================================================
//
// This package is the single source of truth for where each semantic invoice
// field lives inside an input workbook. The extractor, the template producer
// and the tests all read the same contract, so a layout change only ever
// happens in one place.
//
// WORKSHEET LAYOUT (version 1):
//
//   B3..B11   issuer block    (company name, address, email, phone, tax id,
//                              website, bank name, account number, bank code)
//   B14..B22  customer block  (name, company, bill number, date, email,
//                              phone, address, payment terms, notes)
//   rows 26..30, cols B/C/D/E line items (description, quantity, unit price,
//                              amount)
//   E33..E36  totals          (subtotal, tax rate %, tax amount, total)
//
// =============================================================================

package layout

import "fmt"

// Version identifies the layout revision the rest of the code was built
// against. Bump it whenever a cell address below moves.
const Version = 1

// SheetIndex is the worksheet the contract applies to. Only the first sheet
// of the workbook is ever read.
const SheetIndex = 0

// Issuer block cell addresses.
const (
	CellCompanyName   = "B3"
	CellCompanyAddr   = "B4"
	CellCompanyEmail  = "B5"
	CellCompanyPhone  = "B6"
	CellTaxID         = "B7"
	CellWebsite       = "B8"
	CellBankName      = "B9"
	CellAccountNumber = "B10"
	CellBankCode      = "B11"
)

// Customer and document block cell addresses.
const (
	CellCustomerName    = "B14"
	CellCustomerCompany = "B15"
	CellBillNumber      = "B16"
	CellDate            = "B17"
	CellCustomerEmail   = "B18"
	CellCustomerPhone   = "B19"
	CellCustomerAddr    = "B20"
	CellPaymentTerms    = "B21"
	CellNotes           = "B22"
)

// Line-item row range (inclusive) and per-row columns.
const (
	ItemStartRow = 26
	ItemEndRow   = 30

	ColDescription = "B"
	ColQuantity    = "C"
	ColUnitPrice   = "D"
	ColAmount      = "E"
)

// Totals block cell addresses.
const (
	CellSubtotal    = "E33"
	CellTaxRate     = "E34"
	CellTaxAmount   = "E35"
	CellTotalAmount = "E36"
)

// MaxItems is the number of line-item rows the contract reserves.
const MaxItems = ItemEndRow - ItemStartRow + 1

// ItemCell returns the cell address for a line-item column in the given row.
// The row must be inside [ItemStartRow, ItemEndRow].
func ItemCell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
