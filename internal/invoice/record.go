// =============================================================================
// billforge - Invoice Record Model
// =============================================================================
//
// The canonical in-memory representation of one invoice. A Record is created
// once per uploaded workbook (extractor + profile merge), lives for the
// session, and is only ever replaced wholesale by the recalculation engine;
// nothing mutates a Record in place once it has been handed to a caller.
//
// Derived fields (item amounts, subtotal, tax amount, total) are kept
// consistent by Normalize and by the recalculation engine in recalc.go.
//
// =============================================================================

package invoice

import (
	"fmt"
	"time"
)

// LineItem is a single billed row. Amount is always round2(quantity*unitPrice)
// after any edit; at extraction time it may briefly carry the workbook's own
// formula result until Normalize recomputes it.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// Record is the canonical invoice. String fields are plain display text;
// Date in particular stays a string because downstream rendering only ever
// displays it.
type Record struct {
	// Issuer block.
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`
	TaxID          string `json:"taxId"`
	Website        string `json:"website"`
	BankName       string `json:"bankName"`
	AccountNumber  string `json:"accountNumber"`
	BankCode       string `json:"bankCode"`

	// Counterparty block.
	CustomerName    string `json:"customerName"`
	CustomerCompany string `json:"customerCompany"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	PaymentTerms    string `json:"paymentTerms"`

	// Document block.
	BillNumber string `json:"billNumber"`
	Date       string `json:"date"`
	Notes      string `json:"notes"`

	// Ordered line items; insertion order is row order.
	Items []LineItem `json:"items"`

	// Derived totals.
	Subtotal    float64 `json:"subtotal"`
	TaxRate     float64 `json:"taxRate"`
	TaxAmount   float64 `json:"taxAmount"`
	TotalAmount float64 `json:"totalAmount"`
}

// Placeholder is substituted for required display strings that are empty in
// the source workbook, so a blank cell never propagates to the renderer as
// an empty field.
const Placeholder = "N/A"

// Clock supplies the current time; injectable so bill-number fallbacks are
// deterministic under test.
type Clock func() time.Time

// FallbackBillNumber generates the bill number used when the source workbook
// left the cell empty. It is assigned once at creation time and stable for
// the rest of the record's life.
func FallbackBillNumber(now Clock) string {
	if now == nil {
		now = time.Now
	}
	return fmt.Sprintf("INV-%d", now().UnixMilli())
}

// Clone returns a deep copy of the record. The recalculation engine works on
// clones so callers can diff old and new records for a pending-changes
// indicator.
func (r *Record) Clone() *Record {
	c := *r
	c.Items = make([]LineItem, len(r.Items))
	copy(c.Items, r.Items)
	return &c
}

// Normalize recomputes every derived field from its upstream inputs in the
// fixed order item amount -> subtotal -> tax -> total, and substitutes the
// display placeholder for required strings that came through empty. The
// workbook's own formula results are not trusted; quantity and unit price
// are authoritative.
func (r *Record) Normalize() {
	for i := range r.Items {
		r.Items[i].Quantity = Round2(r.Items[i].Quantity)
		r.Items[i].UnitPrice = Round2(r.Items[i].UnitPrice)
		r.Items[i].Amount = Mul2(r.Items[i].Quantity, r.Items[i].UnitPrice)
	}

	amounts := make([]float64, len(r.Items))
	for i, it := range r.Items {
		amounts[i] = it.Amount
	}
	r.Subtotal = Sum2(amounts...)
	r.TaxRate = Round2(r.TaxRate)
	r.TaxAmount = Percent2(r.Subtotal, r.TaxRate)
	r.TotalAmount = Sum2(r.Subtotal, r.TaxAmount)

	if r.CompanyName == "" {
		r.CompanyName = Placeholder
	}
	if r.CustomerName == "" {
		r.CustomerName = Placeholder
	}
}
