// =============================================================================
// billforge - Template Producer
// =============================================================================
//
// Emits the starter workbook a user fills in. The generated file follows
// the cell layout contract exactly (labels in column A, values in column B,
// item rows with amount formulas, totals with SUM/tax/total formulas) so a
// human completing it always produces input the extractor can consume.
//
// =============================================================================

package template

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/billforge/billforge/internal/layout"
)

// SheetName is the single worksheet the template carries.
const SheetName = "Bill Template"

// DefaultFileName is the suggested download name for the workbook.
const DefaultFileName = "bill-template.xlsx"

// issuerLabels pair each issuer cell with its prompt, in row order.
var issuerLabels = []struct{ cell, label string }{
	{layout.CellCompanyName, "Company Name"},
	{layout.CellCompanyAddr, "Company Address"},
	{layout.CellCompanyEmail, "Company Email"},
	{layout.CellCompanyPhone, "Company Phone"},
	{layout.CellTaxID, "Tax ID"},
	{layout.CellWebsite, "Website"},
	{layout.CellBankName, "Bank Name"},
	{layout.CellAccountNumber, "Account Number"},
	{layout.CellBankCode, "Bank Code"},
}

var customerLabels = []struct{ cell, label string }{
	{layout.CellCustomerName, "Customer Name"},
	{layout.CellCustomerCompany, "Customer Company"},
	{layout.CellBillNumber, "Bill Number"},
	{layout.CellDate, "Date (YYYY-MM-DD)"},
	{layout.CellCustomerEmail, "Customer Email"},
	{layout.CellCustomerPhone, "Customer Phone"},
	{layout.CellCustomerAddr, "Customer Address"},
	{layout.CellPaymentTerms, "Payment Terms"},
	{layout.CellNotes, "Notes"},
}

// Generate builds the starter workbook and returns its bytes.
func Generate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// excelize starts every workbook with "Sheet1"; rename it so the
	// template sheet is the first (and only) sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name template sheet: %w", err)
	}

	set := func(cell string, value interface{}) {
		// SetCellValue only errors on invalid coordinates, which are all
		// constants here.
		_ = f.SetCellValue(SheetName, cell, value)
	}

	set("A1", "Bill Generator Template")
	set("A2", "Issuer Details")
	for _, l := range issuerLabels {
		set(labelCell(l.cell), l.label)
	}

	set("A13", "Invoice Details")
	for _, l := range customerLabels {
		set(labelCell(l.cell), l.label)
	}

	// Items header row sits directly above the item range.
	headerRow := layout.ItemStartRow - 1
	set(fmt.Sprintf("A%d", headerRow), "No.")
	set(layout.ItemCell(layout.ColDescription, headerRow), "Description")
	set(layout.ItemCell(layout.ColQuantity, headerRow), "Quantity")
	set(layout.ItemCell(layout.ColUnitPrice, headerRow), "Unit Price")
	set(layout.ItemCell(layout.ColAmount, headerRow), "Amount")

	for row := layout.ItemStartRow; row <= layout.ItemEndRow; row++ {
		set(fmt.Sprintf("A%d", row), row-layout.ItemStartRow+1)
		formula := fmt.Sprintf("%s%d*%s%d", layout.ColQuantity, row, layout.ColUnitPrice, row)
		if err := f.SetCellFormula(SheetName, layout.ItemCell(layout.ColAmount, row), formula); err != nil {
			return nil, fmt.Errorf("failed to set amount formula: %w", err)
		}
	}

	set(labelCell(layout.CellSubtotal), "Subtotal:")
	set(labelCell(layout.CellTaxRate), "Tax Rate (%):")
	set(labelCell(layout.CellTaxAmount), "Tax Amount:")
	set(labelCell(layout.CellTotalAmount), "Total Amount:")

	sum := fmt.Sprintf("SUM(%s:%s)",
		layout.ItemCell(layout.ColAmount, layout.ItemStartRow),
		layout.ItemCell(layout.ColAmount, layout.ItemEndRow))
	if err := f.SetCellFormula(SheetName, layout.CellSubtotal, sum); err != nil {
		return nil, fmt.Errorf("failed to set subtotal formula: %w", err)
	}
	set(layout.CellTaxRate, 0)
	tax := fmt.Sprintf("%s*%s/100", layout.CellSubtotal, layout.CellTaxRate)
	if err := f.SetCellFormula(SheetName, layout.CellTaxAmount, tax); err != nil {
		return nil, fmt.Errorf("failed to set tax formula: %w", err)
	}
	total := fmt.Sprintf("%s+%s", layout.CellSubtotal, layout.CellTaxAmount)
	if err := f.SetCellFormula(SheetName, layout.CellTotalAmount, total); err != nil {
		return nil, fmt.Errorf("failed to set total formula: %w", err)
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 15}, {"B", 40}, {"C", 10}, {"D", 12}, {"E", 12},
	}
	for _, w := range widths {
		if err := f.SetColWidth(SheetName, w.col, w.col, w.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write template workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// labelCell shifts a value cell's address one column left (B3 -> A3,
// E33 -> D33) to place its prompt.
func labelCell(valueCell string) string {
	col, row, _ := excelize.CellNameToCoordinates(valueCell)
	name, _ := excelize.CoordinatesToCellName(col-1, row)
	return name
}
