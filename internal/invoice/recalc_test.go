package invoice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billforge/billforge/internal/invoice"
)

// threeItemRecord is the worked scenario: amounts 20/30/50, 10% tax.
func threeItemRecord() *invoice.Record {
	rec := &invoice.Record{
		BillNumber: "INV-100",
		Items: []invoice.LineItem{
			{Description: "Widget", Quantity: 2, UnitPrice: 10},
			{Description: "Gadget", Quantity: 3, UnitPrice: 10},
			{Description: "Gizmo", Quantity: 5, UnitPrice: 10},
		},
		TaxRate: 10,
	}
	rec.Normalize()
	return rec
}

func TestNormalizeComputesDerivedFields(t *testing.T) {
	rec := threeItemRecord()

	assert.Equal(t, 20.0, rec.Items[0].Amount)
	assert.Equal(t, 30.0, rec.Items[1].Amount)
	assert.Equal(t, 50.0, rec.Items[2].Amount)
	assert.Equal(t, 100.0, rec.Subtotal)
	assert.Equal(t, 10.0, rec.TaxAmount)
	assert.Equal(t, 110.0, rec.TotalAmount)
}

func TestRecomputeQuantityEdit(t *testing.T) {
	rec := threeItemRecord()

	next, err := invoice.Recompute(rec, invoice.Edit{
		Kind:  invoice.EditItemField,
		Index: 0,
		Field: invoice.FieldQuantity,
		Value: "4",
	})
	require.NoError(t, err)

	assert.Equal(t, 40.0, next.Items[0].Amount)
	assert.Equal(t, 120.0, next.Subtotal)
	assert.Equal(t, 12.0, next.TaxAmount)
	assert.Equal(t, 132.0, next.TotalAmount)

	// Input record is untouched.
	assert.Equal(t, 20.0, rec.Items[0].Amount)
	assert.Equal(t, 100.0, rec.Subtotal)
}

func TestRecomputeEditDoesNotTouchOtherItems(t *testing.T) {
	rec := threeItemRecord()

	next, err := invoice.Recompute(rec, invoice.Edit{
		Kind:  invoice.EditItemField,
		Index: 1,
		Field: invoice.FieldUnitPrice,
		Value: "20",
	})
	require.NoError(t, err)

	assert.Equal(t, rec.Items[0].Amount, next.Items[0].Amount)
	assert.Equal(t, rec.Items[2].Amount, next.Items[2].Amount)
	assert.Equal(t, 60.0, next.Items[1].Amount)
}

func TestRecomputeDescriptionLeavesTotals(t *testing.T) {
	rec := threeItemRecord()

	next, err := invoice.Recompute(rec, invoice.Edit{
		Kind:  invoice.EditItemField,
		Index: 2,
		Field: invoice.FieldDescription,
		Value: "Deluxe Gizmo",
	})
	require.NoError(t, err)

	assert.Equal(t, "Deluxe Gizmo", next.Items[2].Description)
	assert.Equal(t, rec.Subtotal, next.Subtotal)
	assert.Equal(t, rec.TaxAmount, next.TaxAmount)
	assert.Equal(t, rec.TotalAmount, next.TotalAmount)
}

func TestRecomputeTaxRate(t *testing.T) {
	rec := threeItemRecord()

	next, err := invoice.Recompute(rec, invoice.Edit{
		Kind:  invoice.EditTaxRate,
		Value: "17.5",
	})
	require.NoError(t, err)

	assert.Equal(t, 17.5, next.TaxRate)
	assert.Equal(t, 17.5, next.TaxAmount)
	assert.Equal(t, 117.5, next.TotalAmount)
}

func TestRecomputeTaxRateIdempotent(t *testing.T) {
	rec := threeItemRecord()

	next, err := invoice.Recompute(rec, invoice.Edit{
		Kind:  invoice.EditTaxRate,
		Value: invoice.FormatAmount(rec.TaxRate),
	})
	require.NoError(t, err)

	assert.Equal(t, *rec, *next)
}

func TestRecomputeInvalidNumericInputBecomesZero(t *testing.T) {
	rec := threeItemRecord()

	next, err := invoice.Recompute(rec, invoice.Edit{
		Kind:  invoice.EditItemField,
		Index: 0,
		Field: invoice.FieldQuantity,
		Value: "lots",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, next.Items[0].Quantity)
	assert.Equal(t, 0.0, next.Items[0].Amount)
	assert.Equal(t, 80.0, next.Subtotal)
}

func TestRecomputeScalarField(t *testing.T) {
	rec := threeItemRecord()

	next, err := invoice.Recompute(rec, invoice.Edit{
		Kind:  invoice.EditScalarField,
		Field: "customerName",
		Value: "Jordan Blake",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jordan Blake", next.CustomerName)
	assert.Equal(t, rec.Subtotal, next.Subtotal)
}

func TestRecomputeRejectsBadEdits(t *testing.T) {
	rec := threeItemRecord()

	_, err := invoice.Recompute(rec, invoice.Edit{Kind: invoice.EditItemField, Index: 9, Field: invoice.FieldQuantity, Value: "1"})
	assert.Error(t, err)

	_, err = invoice.Recompute(rec, invoice.Edit{Kind: invoice.EditItemField, Index: 0, Field: "color", Value: "red"})
	assert.Error(t, err)

	_, err = invoice.Recompute(rec, invoice.Edit{Kind: invoice.EditScalarField, Field: "subtotal", Value: "999"})
	assert.Error(t, err)

	_, err = invoice.Recompute(rec, invoice.Edit{Kind: "teleport", Value: "1"})
	assert.Error(t, err)
}

// Derived-field closure: any chain of edits leaves the invariants intact.
func TestRecomputeInvariantsHoldUnderEditChains(t *testing.T) {
	rec := threeItemRecord()

	edits := []invoice.Edit{
		{Kind: invoice.EditItemField, Index: 0, Field: invoice.FieldQuantity, Value: "7"},
		{Kind: invoice.EditTaxRate, Value: "12.5"},
		{Kind: invoice.EditItemField, Index: 2, Field: invoice.FieldUnitPrice, Value: "19.99"},
		{Kind: invoice.EditItemField, Index: 1, Field: invoice.FieldDescription, Value: "Renamed"},
		{Kind: invoice.EditScalarField, Field: "notes", Value: "rush order"},
		{Kind: invoice.EditTaxRate, Value: "0"},
		{Kind: invoice.EditItemField, Index: 1, Field: invoice.FieldQuantity, Value: "0.5"},
	}

	for i, edit := range edits {
		var err error
		rec, err = invoice.Recompute(rec, edit)
		require.NoError(t, err, "edit %d", i)
		require.Empty(t, invoice.Validate(rec), "violations after edit %d: %v", i, invoice.Validate(rec))
	}
}

func TestValidateFlagsInconsistentRecord(t *testing.T) {
	rec := threeItemRecord()
	rec.Subtotal = 999 // break the derived-field closure

	violations := invoice.Validate(rec)
	require.NotEmpty(t, violations)

	found := false
	for _, v := range violations {
		if v.Field == "subtotal" {
			found = true
		}
	}
	assert.True(t, found, "expected a subtotal violation, got %v", violations)
}

func TestValidateFlagsNegativeAndEmpty(t *testing.T) {
	rec := &invoice.Record{BillNumber: ""}
	rec.Normalize()
	rec.TaxRate = -1

	violations := invoice.Validate(rec)
	fields := make(map[string]bool)
	for _, v := range violations {
		fields[v.Field] = true
	}
	assert.True(t, fields["billNumber"])
	assert.True(t, fields["taxRate"])
}

func TestFallbackBillNumberUsesInjectedClock(t *testing.T) {
	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	assert.Equal(t, "INV-1700000000000", invoice.FallbackBillNumber(clock))
	// Same clock, same number: deterministic under a fixed seed.
	assert.Equal(t, invoice.FallbackBillNumber(clock), invoice.FallbackBillNumber(clock))
}

func TestCloneIsDeep(t *testing.T) {
	rec := threeItemRecord()
	c := rec.Clone()
	c.Items[0].Quantity = 99
	assert.Equal(t, 2.0, rec.Items[0].Quantity)
	assert.NotSame(t, rec, c)
}
