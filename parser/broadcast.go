package parser

import "time"

// broadcastContext propagates location, transaction type, and date across
// lines that lack their own. Two passes: a forward pass carrying the most
// recently seen values, then a backward fill using the last values seen
// anywhere in the message, so context stated only near the end still applies
// to earlier lines.
func broadcastContext(lines []*line) {
	if len(lines) == 0 {
		return
	}

	var ctxLoc, ctxDir, ctxType string
	var ctxDate time.Time
	for _, l := range lines {
		if l.location != "" {
			ctxLoc, ctxDir = l.location, l.direction
		}
		if l.transType != "" {
			ctxType = l.transType
		}
		if !l.date.IsZero() {
			ctxDate = l.date
		}

		if l.location == "" && ctxLoc != "" {
			l.location, l.direction = ctxLoc, ctxDir
		}
		if l.transType == "" && ctxType != "" {
			l.transType = ctxType
		}
		if l.date.IsZero() && !ctxDate.IsZero() {
			l.date = ctxDate
		}
	}

	var lastLoc, lastDir, lastType string
	var lastDate time.Time
	for _, l := range lines {
		if l.location != "" {
			lastLoc, lastDir = l.location, l.direction
		}
		if !l.date.IsZero() {
			lastDate = l.date
		}
		if l.transType != "" {
			lastType = l.transType
		}
	}

	for _, l := range lines {
		if l.location == "" && lastLoc != "" {
			l.location, l.direction = lastLoc, lastDir
		}
		if l.date.IsZero() && !lastDate.IsZero() {
			l.date = lastDate
		}
		if l.transType == "" && lastType != "" {
			l.transType = lastType
		}
	}
}
