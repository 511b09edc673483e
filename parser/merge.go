package parser

import (
	"github.com/stocktext/stocktext/config"
)

// mergeLines joins adjacent lines that together form one logical
// transaction. Two rules, applied sequentially and never reprocessed:
//
//   - A line with a quantity but no item (and no unmatched residue),
//     immediately followed by a line with an item but no quantity, merges
//     into one transaction. Only adjacent pairs merge: of two consecutive
//     quantity-only lines, only the second can pair with a following item
//     line; the first stays unparseable.
//   - A line with neither quantity nor item but carrying a transaction type
//     and/or note, and no location of its own, folds into the preceding
//     line: its type fills a gap, its note always lands.
//
// The merged line keeps the quantity line's (usually absent) location; any
// location on the item line is dropped and left for context broadcasting to
// recover.
func mergeLines(lines []*line, cfg *config.Config) []*line {
	if len(lines) == 0 {
		return nil
	}

	var merged []*line
	i := 0
	for i < len(lines) {
		current := lines[i]

		if current.hasQty && !current.hasItem && current.unmatched == "" && i+1 < len(lines) {
			next := lines[i+1]
			if next.hasItem && !next.hasQty {
				combined := *current
				combined.item = next.item
				combined.itemRaw = next.itemRaw
				combined.hasItem = true
				combined.raw = current.raw + "\n" + next.raw
				applyConversion(&combined, cfg)
				merged = append(merged, &combined)
				i += 2
				continue
			}
		}

		if !current.hasQty && !current.hasItem &&
			(current.transType != "" || current.note != "") &&
			current.location == "" && len(merged) > 0 {
			prev := merged[len(merged)-1]
			if current.transType != "" && prev.transType == "" {
				prev.transType = current.transType
			}
			if current.note != "" {
				prev.note = current.note
			}
			i++
			continue
		}

		merged = append(merged, current)
		i++
	}

	return merged
}
