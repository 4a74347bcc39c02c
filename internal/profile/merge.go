// =============================================================================
// billforge - Profile Merger
// =============================================================================
//
// Overlays the persisted issuer profile onto a freshly extracted draft
// record. Precedence: a non-empty profile field wins over the draft value
// from the workbook; an empty or missing profile field keeps the draft
// value. This lets one saved profile serve many uploads while still
// allowing one-off overrides typed into the spreadsheet itself.
//
// The profile may use either of two historical key schemes for the contact
// fields (email/phone vs companyEmail/companyPhone); both normalize to the
// canonical names here.
//
// =============================================================================

package profile

import "github.com/billforge/billforge/internal/invoice"

// Merge returns a new record with the profile's issuer fields overlaid on
// the draft. It is pure and total: the draft is never mutated, and a nil
// profile yields an identical copy.
func Merge(draft *invoice.Record, p Profile) *invoice.Record {
	rec := draft.Clone()
	if len(p) == 0 {
		return rec
	}

	p = normalizeKeys(p)

	overlay(&rec.CompanyName, p["companyName"])
	overlay(&rec.CompanyAddress, p["companyAddress"])
	overlay(&rec.CompanyEmail, p["companyEmail"])
	overlay(&rec.CompanyPhone, p["companyPhone"])
	overlay(&rec.TaxID, p["taxId"])
	overlay(&rec.Website, p["website"])
	overlay(&rec.BankName, p["bankName"])
	overlay(&rec.AccountNumber, p["accountNumber"])
	overlay(&rec.BankCode, p["bankCode"])

	return rec
}

// normalizeKeys maps the legacy email/phone keys onto the canonical
// companyEmail/companyPhone names. Canonical keys win when both are present.
func normalizeKeys(p Profile) Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	if out["companyEmail"] == "" {
		out["companyEmail"] = p["email"]
	}
	if out["companyPhone"] == "" {
		out["companyPhone"] = p["phone"]
	}
	// Older profiles saved the bank code under its regional name.
	if out["bankCode"] == "" {
		out["bankCode"] = p["ifscCode"]
	}
	return out
}

// overlay replaces dst only when the profile supplied a non-empty value.
func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
