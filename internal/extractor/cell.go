// =============================================================================
// billforge - Cell Classification
// =============================================================================
//
// One classifier turns every raw workbook cell into a small tagged value
// (Empty, Text, Number or Date) so the extractor consumes cells uniformly
// instead of casting per field. Numbers come from the raw (unformatted)
// cell value, so a currency-styled cell classifies by its stored value, not
// its display string.
//
// =============================================================================

package extractor

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Kind tags the classified cell value.
type Kind int

const (
	// KindEmpty marks a missing or blank cell.
	KindEmpty Kind = iota

	// KindText marks a cell holding a plain string.
	KindText

	// KindNumber marks a cell holding a numeric value. Date cells stored as
	// day-count serials classify as numbers; the date reader handles them.
	KindNumber

	// KindDate marks a cell with a native date type (ISO 8601 storage).
	KindDate
)

// Value is the tagged union produced by classification. Text carries the
// trimmed raw string for every non-empty kind; Number and Time are only
// meaningful for their respective kinds.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Time   time.Time
}

// IsEmpty reports whether the cell held nothing usable.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// isoLayouts are the storage layouts native date cells use.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// classify reads one cell and returns its tagged value. Read errors are
// treated as an empty cell: a cell excelize cannot give us is
// indistinguishable from one that was never filled in.
func classify(f *excelize.File, sheet, addr string) Value {
	raw, err := f.GetCellValue(sheet, addr, excelize.Options{RawCellValue: true})
	if err != nil {
		return Value{Kind: KindEmpty}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{Kind: KindEmpty}
	}

	if ct, err := f.GetCellType(sheet, addr); err == nil && ct == excelize.CellTypeDate {
		for _, layout := range isoLayouts {
			if t, perr := time.Parse(layout, raw); perr == nil {
				return Value{Kind: KindDate, Text: raw, Time: t}
			}
		}
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return Value{Kind: KindNumber, Text: raw, Number: n}
	}

	return Value{Kind: KindText, Text: raw}
}
