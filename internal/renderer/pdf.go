// =============================================================================
// billforge - PDF Renderer
// =============================================================================
//
// Turns a finalized invoice record into an A4 PDF: centered INVOICE header,
// FROM/TO columns, bank details, items table with totals rows, notes and a
// footer line. When the preview flag is set a diagonal PREVIEW watermark is
// laid over the page so a draft can never be mistaken for the final
// document.
//
// The renderer consumes the record as-is; every value is already stringified
// and rounded by the model. A failed render returns *RenderError and no
// bytes, so callers can keep showing the previous preview.
//
// =============================================================================

package renderer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/billforge/billforge/internal/invoice"
)

// RenderError wraps any failure to produce a document from an otherwise
// valid record.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to generate PDF document: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Layout constants, in millimeters on an A4 page.
const (
	marginLeft  = 15.0
	marginRight = 15.0
	marginTop   = 15.0
	lineHeight  = 6.0
	labelWidth  = 18.0
)

// Render produces the PDF for a record. preview=true adds the diagonal
// watermark.
func Render(rec *invoice.Record, preview bool) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice - "+rec.BillNumber, false)
	pdf.SetAuthor(rec.CompanyName, false)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - marginLeft - marginRight
	colWidth := contentWidth/2 - 2
	rightColX := pageWidth/2 + 3

	// Header.
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(51, 51, 51)
	pdf.Text(pageWidth/2-pdf.GetStringWidth("INVOICE")/2, marginTop+5, "INVOICE")

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(marginLeft, y, "FROM:")
	pdf.Text(rightColX, y, "TO:")
	y += 7

	field := func(x, y float64, label, value string, maxWidth float64) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(102, 102, 102)
		pdf.Text(x, y, label)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(51, 51, 51)
		pdf.Text(x+labelWidth, y, truncate(pdf, value, maxWidth-labelWidth))
	}

	pair := func(leftLabel, leftValue, rightLabel, rightValue string) {
		field(marginLeft, y, leftLabel, leftValue, colWidth)
		if rightLabel != "" {
			field(rightColX, y, rightLabel, rightValue, colWidth)
		}
		y += lineHeight
	}

	pair("Company:", rec.CompanyName, "Company:", rec.CustomerCompany)
	field(rightColX, y, "Name:", rec.CustomerName, colWidth)
	y += lineHeight
	pair("Address:", rec.CompanyAddress, "Address:", rec.CustomerAddress)
	pair("Email:", rec.CompanyEmail, "Email:", rec.CustomerEmail)
	pair("Phone:", rec.CompanyPhone, "Phone:", rec.CustomerPhone)
	pair("Tax ID:", rec.TaxID, "", "")
	y += 4

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.Text(marginLeft, y, "BANK DETAILS")
	y += 8

	pair("Bank:", rec.BankName, "Invoice No:", rec.BillNumber)
	pair("Account:", rec.AccountNumber, "Date:", rec.Date)
	pair("Code:", rec.BankCode, "Terms:", rec.PaymentTerms)
	y += 4

	pdf.SetDrawColor(51, 51, 51)
	pdf.SetLineWidth(0.3)
	pdf.Line(marginLeft, y, pageWidth-marginRight, y)
	y += 6

	// Items table.
	descWidth := contentWidth - 20 - 25 - 25
	widths := []float64{descWidth, 20, 25, 25}
	aligns := []string{"L", "C", "C", "C"}

	pdf.SetY(y)
	pdf.SetX(marginLeft)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(33, 82, 135)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Description", "Qty", "Price", "Amount"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetDrawColor(200, 200, 200)
	for _, it := range rec.Items {
		cells := []string{
			it.Description,
			invoice.FormatAmount(it.Quantity),
			invoice.FormatAmount(it.UnitPrice),
			invoice.FormatAmount(it.Amount),
		}
		pdf.SetX(marginLeft)
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, truncate(pdf, c, widths[i]-2), "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	summary := [][2]string{
		{"Subtotal:", invoice.FormatAmount(rec.Subtotal)},
		{fmt.Sprintf("Tax (%s%%):", invoice.FormatAmount(rec.TaxRate)), invoice.FormatAmount(rec.TaxAmount)},
		{"Total:", invoice.FormatAmount(rec.TotalAmount)},
	}
	for _, row := range summary {
		pdf.SetX(marginLeft)
		pdf.CellFormat(widths[0], 7, "", "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, "", "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, row[1], "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	// Notes.
	if rec.Notes != "" {
		notesY := pdf.GetY() + 8
		pdf.SetY(notesY)
		pdf.SetX(marginLeft)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(contentWidth, 5, "Notes:")
		pdf.Ln(5)
		pdf.SetX(marginLeft)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(102, 102, 102)
		pdf.MultiCell(contentWidth, 4.5, rec.Notes, "", "L", false)
	}

	// Footer.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(51, 51, 51)
	footer := "Thank you for your business!"
	pdf.Text(pageWidth/2-pdf.GetStringWidth(footer)/2, pageHeight-15, footer)

	if preview {
		pdf.SetFont("Helvetica", "", 60)
		pdf.SetTextColor(150, 150, 150)
		pdf.TransformBegin()
		pdf.TransformRotate(45, pageWidth/2, pageHeight/2)
		mark := "PREVIEW"
		pdf.Text(pageWidth/2-pdf.GetStringWidth(mark)/2, pageHeight/2, mark)
		pdf.TransformEnd()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

// truncate shortens a string to fit a cell width, appending an ellipsis.
// gofpdf would otherwise overflow into the neighboring column.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 1 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
