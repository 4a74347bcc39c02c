package template_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/billforge/billforge/internal/extractor"
	"github.com/billforge/billforge/internal/layout"
	"github.com/billforge/billforge/internal/template"
)

func openTemplate(t *testing.T) *excelize.File {
	t.Helper()
	data, err := template.Generate()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerateSheetName(t *testing.T) {
	f := openTemplate(t)
	assert.Equal(t, template.SheetName, f.GetSheetName(0))
	assert.Len(t, f.GetSheetList(), 1)
}

func TestGenerateLabelsSitLeftOfValueCells(t *testing.T) {
	f := openTemplate(t)

	labels := map[string]string{
		"A3":  "Company Name",
		"A11": "Bank Code",
		"A14": "Customer Name",
		"A16": "Bill Number",
		"A22": "Notes",
		"D33": "Subtotal:",
		"D36": "Total Amount:",
	}
	for cell, want := range labels {
		got, err := f.GetCellValue(template.SheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "cell %s", cell)
	}
}

func TestGenerateItemFormulas(t *testing.T) {
	f := openTemplate(t)

	for row := layout.ItemStartRow; row <= layout.ItemEndRow; row++ {
		formula, err := f.GetCellFormula(template.SheetName, layout.ItemCell(layout.ColAmount, row))
		require.NoError(t, err)
		assert.Contains(t, formula, layout.ItemCell(layout.ColQuantity, row))
		assert.Contains(t, formula, layout.ItemCell(layout.ColUnitPrice, row))
	}
}

func TestGenerateTotalFormulas(t *testing.T) {
	f := openTemplate(t)

	subtotal, err := f.GetCellFormula(template.SheetName, layout.CellSubtotal)
	require.NoError(t, err)
	assert.Contains(t, subtotal, "SUM")

	total, err := f.GetCellFormula(template.SheetName, layout.CellTotalAmount)
	require.NoError(t, err)
	assert.Contains(t, total, layout.CellSubtotal)
	assert.Contains(t, total, layout.CellTaxAmount)
}

func TestGeneratedTemplateIsExtractable(t *testing.T) {
	data, err := template.Generate()
	require.NoError(t, err)

	// A blank template extracts to an empty-but-valid draft: placeholders,
	// a fallback bill number and no items.
	rec, err := extractor.Extract(data, extractor.Options{})
	require.NoError(t, err)
	assert.Empty(t, rec.Items)
	assert.NotEmpty(t, rec.BillNumber)
}
