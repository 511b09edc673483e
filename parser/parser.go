// Package parser converts free-form inventory messages into structured
// transaction rows. A single Parse call runs five composed stages over one
// message: metadata stripping, per-line extraction, line merging, context
// broadcasting, and result generation. The pipeline is pure and holds no
// state across calls; configuration is treated as an immutable snapshot.
package parser

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/record"
	"github.com/stocktext/stocktext/telemetry"
)

// line is the intermediate result of parsing one physical message line. The
// merger and broadcaster fill in inherited context before the result
// generator classifies it.
type line struct {
	raw string

	date      time.Time
	location  string
	direction string
	transType string

	qty       decimal.Decimal
	hasQty    bool
	container string

	item    string
	itemRaw string
	hasItem bool

	unmatched string
	note      string
	batch     int
}

// Parse converts one message into transaction rows, notes, and unparseable
// fragments. today supplies the date for lines that carry none.
func Parse(text string, cfg *config.Config, today time.Time) *record.Result {
	return ParseContext(context.Background(), text, cfg, today)
}

// ParseContext is Parse with per-stage timings reported through any collector
// attached to the context.
func ParseContext(ctx context.Context, text string, cfg *config.Config, today time.Time) *record.Result {
	collector := telemetry.FromContext(ctx)

	timer := collector.Start("strip metadata")
	text = stripMetadata(text)
	timer.End()

	timer = collector.Start("parse lines")
	var lines []*line
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		lines = append(lines, parseLine(raw, cfg))
	}
	timer.End()

	timer = collector.Start("merge lines")
	lines = mergeLines(lines, cfg)
	timer.End()

	timer = collector.Start("broadcast context")
	broadcastContext(lines)
	timer.End()

	timer = collector.Start("generate rows")
	result := generate(lines, cfg, today)
	timer.End()

	return result
}

// parseLine extracts date, location, verb, quantity, and item from a single
// line. The extraction order is load-bearing: each stage consumes its match
// from the text, and later stages operate on the residue. In particular a
// six-digit number is consumed as a date candidate before quantity extraction
// ever sees it.
func parseLine(raw string, cfg *config.Config) *line {
	l := &line{raw: raw}

	// Signs in message text are never authoritative; the double-entry
	// logic decides signs later.
	remaining := strings.TrimSpace(signRe.ReplaceAllString(raw, ""))

	if m := tookRe.FindStringSubmatch(remaining); m != nil {
		l.qty = decimal.RequireFromString(m[1])
		l.hasQty = true
		l.note = "had " + m[2] + " total"
		if item, matched := matchItem(strings.TrimSpace(m[3]), cfg); item != "" {
			l.item, l.itemRaw, l.hasItem = item, matched, true
		}
		return l
	}

	if d, rest, ok := extractDate(remaining); ok {
		l.date = d
		remaining = rest
	}

	if loc, dir, rest, ok := extractLocation(remaining, cfg); ok {
		l.location, l.direction = loc, dir
		remaining = rest
	}

	if tt, rest, ok := extractVerb(remaining, cfg); ok {
		l.transType = tt
		remaining = rest
	}

	if hasFromWord(remaining, cfg) {
		if supplier, rest, ok := extractSupplier(remaining, cfg); ok {
			l.note = "from " + supplier
			remaining = rest
		}
	}

	beforeQty := remaining
	if qty, cont, rest, ok := extractQty(remaining, cfg); ok {
		l.qty, l.hasQty = qty, true
		l.container = cont
		remaining = rest
	}

	remaining = removeFiller(remaining, cfg)
	if strings.TrimSpace(remaining) != "" {
		if item, matched := matchItem(remaining, cfg); item != "" {
			l.item, l.itemRaw, l.hasItem = item, matched, true
		} else {
			l.unmatched = strings.TrimSpace(remaining)
		}
	}

	if !l.hasItem && l.hasQty {
		retryOtherNumbers(l, beforeQty, cfg)
	}

	applyConversion(l, cfg)
	return l
}

// retryOtherNumbers handles lines with several numbers where the first one
// claimed as quantity left no matchable item: each other integer is tried as
// the quantity, with item matching over the rest. The first success wins.
func retryOtherNumbers(l *line, beforeQty string, cfg *config.Config) {
	nums := intRe.FindAllString(beforeQty, -1)
	if len(nums) < 2 {
		return
	}
	for _, numStr := range nums {
		trial := decimal.RequireFromString(numStr)
		if trial.Equal(l.qty) {
			continue
		}
		trialText := strings.TrimSpace(strings.Replace(beforeQty, numStr, "", 1))
		trialText = removeFiller(trialText, cfg)
		cont, after, contOK := extractContainer(trialText, cfg)
		matchText := trialText
		if contOK {
			matchText = after
		}
		if item, matched := matchItem(matchText, cfg); item != "" {
			l.qty, l.hasQty = trial, true
			l.item, l.itemRaw, l.hasItem = item, matched, true
			l.unmatched = ""
			if contOK {
				l.container = cont
			}
			return
		}
	}
}

// applyConversion converts a container count into base units once item,
// container, and quantity are all known. Pairs without a configured factor
// keep the container tag so the review step can learn the factor.
func applyConversion(l *line, cfg *config.Config) {
	if !l.hasItem || !l.hasQty || l.container == "" {
		return
	}
	if factor, ok := cfg.ConversionFactor(l.item, l.container); ok {
		l.qty = l.qty.Mul(factor)
		l.container = ""
	}
}
