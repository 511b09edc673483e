package parser

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/record"
)

// generate classifies each merged line and expands transactions into rows.
// A line with an item is a transaction; numbers with nothing to attach them
// to are unparseable; pure context lines were already absorbed by
// broadcasting and contribute nothing; the rest split into notes and
// unparseable by the alphabetic-ratio heuristic.
func generate(lines []*line, cfg *config.Config, today time.Time) *record.Result {
	result := &record.Result{}
	var transactions []*line

	for _, l := range lines {
		switch {
		case l.hasItem:
			transactions = append(transactions, l)
		case l.hasQty:
			result.Unparseable = append(result.Unparseable, l.raw)
		case l.transType != "" && (l.location != "" || !l.date.IsZero()),
			l.location != "" && !l.date.IsZero(),
			l.location != "" && l.unmatched == "":
			// Pure context line (verb+destination, destination+date, or a
			// standalone destination); already broadcast to its neighbors.
		case isNote(l.raw):
			result.Notes = append(result.Notes, l.raw)
		default:
			result.Unparseable = append(result.Unparseable, l.raw)
		}
	}

	assignBatches(transactions)

	for _, l := range transactions {
		result.Rows = append(result.Rows, rowsFor(l, cfg, today)...)
	}

	return result
}

// isNote reports whether raw text reads as prose: the ratio of alphabetic
// characters (Latin or Hebrew) to total length exceeds 0.3.
func isNote(raw string) bool {
	if raw == "" {
		return false
	}
	alpha := 0
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= 0x0590 && r <= 0x05FF) {
			alpha++
		}
	}
	if alpha == 0 {
		return false
	}
	return float64(alpha)/float64(utf8.RuneCountInString(raw)) > 0.3
}

// assignBatches numbers transaction lines starting at 1, incrementing
// whenever the effective destination changes, or failing that the effective
// date, between consecutive lines.
func assignBatches(lines []*line) {
	if len(lines) == 0 {
		return
	}
	batch := 1
	prevDest := lines[0].location
	prevDate := lines[0].date
	lines[0].batch = batch

	for _, l := range lines[1:] {
		if l.location != "" && prevDest != "" && l.location != prevDest {
			batch++
		} else if !l.date.IsZero() && !prevDate.IsZero() && !l.date.Equal(prevDate) {
			batch++
		}
		l.batch = batch
		if l.location != "" {
			prevDest = l.location
		}
		if !l.date.IsZero() {
			prevDate = l.date
		}
	}
}

// rowsFor expands one transaction line into output rows per the
// transaction-type rules.
func rowsFor(l *line, cfg *config.Config, today time.Time) []*record.Row {
	dt := l.date
	if dt.IsZero() {
		dt = today
	}
	item := l.item
	if item == "" {
		item = record.Unknown
	}
	qty := l.qty
	if !l.hasQty {
		qty = decimal.NewFromInt(1)
	}

	base := record.Row{
		Date:    dt,
		Item:    item,
		Batch:   l.batch,
		Notes:   l.note,
		Matched: l.itemRaw,
	}
	if l.container != "" {
		base.Container = l.container
		base.RawQty = qty
	}

	// Stock creation or destruction: a single row, no paired entry.
	if cfg.IsNonZeroSum(l.transType) {
		row := base
		row.Qty = qty
		row.TransType = l.transType
		row.Location = l.location
		if row.Location == "" {
			row.Location = cfg.DefaultSource
		}
		return []*record.Row{&row}
	}

	// Transfer to a different location: a double-entry pair whose
	// quantities are exact negatives of one another.
	if l.location != "" && l.location != cfg.DefaultSource {
		transType := l.transType
		if transType == "" {
			transType = cfg.DefaultTransferType
		}
		out := base
		in := base
		out.TransType = transType
		in.TransType = transType
		if l.direction == "from" {
			// Stock leaves the named location and arrives at the source.
			out.Qty = qty.Abs().Neg()
			out.Location = l.location
			in.Qty = qty.Abs()
			in.Location = cfg.DefaultSource
		} else {
			out.Qty = qty.Abs().Neg()
			out.Location = cfg.DefaultSource
			in.Qty = qty.Abs()
			in.Location = l.location
		}
		return []*record.Row{&out, &in}
	}

	// Receiving at the default source.
	if l.location != "" {
		row := base
		row.Qty = qty.Abs()
		row.TransType = l.transType
		row.Location = cfg.DefaultSource
		return []*record.Row{&row}
	}

	// No location at all; left for the review step to complete.
	row := base
	row.Qty = qty
	row.TransType = l.transType
	return []*record.Row{&row}
}
