package record

import (
	"strconv"
	"strings"
	"time"
)

// Header is the table header for row display and TSV export.
var Header = []string{"#", "DATE", "ITEM", "QTY", "TYPE", "LOCATION", "BATCH", "NOTES"}

// FormatDate renders a date as YYYY-MM-DD, or the unknown placeholder.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	return t.Format("2006-01-02")
}

// FormatQty renders a quantity without trailing zeros. An unresolved
// container is shown after the count so the review step can ask for a
// conversion factor.
func (r *Row) FormatQty() string {
	s := r.Qty.String()
	if r.Container != "" {
		s += " [" + r.Container + "?]"
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// Cells renders the row's display cells, without the leading row number.
func (r *Row) Cells() []string {
	return []string{
		FormatDate(r.Date),
		orUnknown(r.Item),
		r.FormatQty(),
		orUnknown(r.TransType),
		orUnknown(r.Location),
		strconv.Itoa(r.Batch),
		r.Notes,
	}
}

// TSV formats rows as tab-separated lines (no header) for pasting into a
// spreadsheet.
func TSV(rows []*Row) string {
	if len(rows) == 0 {
		return ""
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, strings.Join(r.Cells(), "\t"))
	}
	return strings.Join(lines, "\n")
}
