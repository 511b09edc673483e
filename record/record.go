// Package record defines the transaction rows produced by the parser and the
// helpers the review step needs: double-entry partner detection, display
// formatting, and quantity/date editing primitives.
package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unknown is the placeholder shown for a field the parser could not resolve.
const Unknown = "???"

// Row is a single transaction row. A transfer is represented as two rows
// (source negative, destination positive) sharing item, date, and batch.
type Row struct {
	Date      time.Time
	Item      string
	Qty       decimal.Decimal
	TransType string
	Location  string
	Batch     int
	Notes     string

	// Matched is the raw text span the item was recognized from; the
	// review step compares it against Item to offer alias learning.
	Matched string

	// Container is set when the quantity was given in a container with no
	// configured conversion factor; RawQty keeps the container count so a
	// learned factor can be applied later.
	Container string
	RawQty    decimal.Decimal
}

// Result is the complete output of parsing one message.
type Result struct {
	Rows        []*Row
	Notes       []string
	Unparseable []string
}

// Empty returns a blank row for manual entry during review.
func Empty(today time.Time) *Row {
	return &Row{
		Date:  today,
		Item:  Unknown,
		Qty:   decimal.Zero,
		Batch: 1,
	}
}

// HasWarning reports whether any of the required fields is unset.
// Field names follow the edit codes: trans_type, location, item, date.
func (r *Row) HasWarning(required []string) bool {
	for _, f := range required {
		switch f {
		case "trans_type":
			if r.TransType == "" {
				return true
			}
		case "location":
			if r.Location == "" {
				return true
			}
		case "item":
			if r.Item == "" || r.Item == Unknown {
				return true
			}
		case "date":
			if r.Date.IsZero() {
				return true
			}
		}
	}
	return false
}

// FindPartner returns the index of the double-entry partner of rows[idx]:
// same batch, same item, opposite-sign quantity. The relationship is derived
// on demand rather than stored, so deleting or editing a row can never leave
// a dangling reference. Returns -1 if there is no partner.
func FindPartner(rows []*Row, idx int) int {
	row := rows[idx]
	if row.Item == "" || row.Item == Unknown || row.Qty.IsZero() {
		return -1
	}
	for i, other := range rows {
		if i == idx {
			continue
		}
		if other.Batch == row.Batch && other.Item == row.Item &&
			other.Qty.Sign()*row.Qty.Sign() < 0 {
			return i
		}
	}
	return -1
}

// Field identifies an editable row field.
type Field string

const (
	FieldDate      Field = "date"
	FieldItem      Field = "item"
	FieldQty       Field = "qty"
	FieldTransType Field = "trans_type"
	FieldLocation  Field = "location"
	FieldBatch     Field = "batch"
	FieldNotes     Field = "notes"
)

// SyncPartner mirrors an edit of rows[idx] onto its double-entry partner so
// the pair stays consistent: item, date, type, and batch are copied; a
// quantity edit negates on the partner. Location and notes edits are
// deliberately not mirrored. Returns the partner index, or -1 when the row
// has none.
func SyncPartner(rows []*Row, idx int, field Field) int {
	partner := FindPartner(rows, idx)
	if partner < 0 {
		return -1
	}
	row, other := rows[idx], rows[partner]
	switch field {
	case FieldItem:
		other.Item = row.Item
	case FieldDate:
		other.Date = row.Date
	case FieldTransType:
		other.TransType = row.TransType
	case FieldBatch:
		other.Batch = row.Batch
	case FieldQty:
		other.Qty = row.Qty.Neg()
	}
	return partner
}
