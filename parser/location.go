package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/match"
)

// directionOrder yields preposition directions in a fixed order so matching
// is deterministic regardless of map iteration.
func directionOrder(preps map[string][]string) []string {
	known := []string{"to", "by", "from"}
	var dirs []string
	for _, d := range known {
		if _, ok := preps[d]; ok {
			dirs = append(dirs, d)
		}
	}
	extra := maps.Keys(preps)
	slices.Sort(extra)
	for _, d := range extra {
		if !slices.Contains(known, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// extractLocation scans for a preposition followed by a known location name
// or a location alias, longest location first so more specific names win.
// Falls back to a fuzzy whole-word scan restricted to multi-character
// location names.
func extractLocation(text string, cfg *config.Config) (loc, dir, remaining string, ok bool) {
	allLocs := cfg.AllLocations()

	// Aliases whose target is a known location extend the candidate set.
	canonical := map[string]string{}
	for alias, target := range cfg.Aliases {
		if cfg.IsLocation(target) {
			canonical[strings.ToLower(alias)] = target
			if !containsFold(allLocs, alias) {
				allLocs = append(allLocs, alias)
			}
		}
	}

	dirs := directionOrder(cfg.Prepositions)

	for _, candidate := range byLengthDesc(allLocs) {
		locQ := regexp.QuoteMeta(candidate)
		for _, direction := range dirs {
			for _, prep := range byLengthDesc(cfg.Prepositions[direction]) {
				var re *regexp.Regexp
				if shortNonASCII(prep) {
					re = looseRe(regexp.QuoteMeta(prep) + `[\-\s]*` + locQ)
				} else {
					re = boundaryRe(regexp.QuoteMeta(prep) + `\s+(?:the\s+)?` + locQ)
				}
				start, end, found := findCore(re, text)
				if !found {
					continue
				}
				return resolveLoc(candidate, canonical), direction, cutSpan(text, start, end), true
			}
		}
	}

	// Fuzzy fallback with a raised cutoff: a location false positive
	// consumes a word the item matcher may have needed.
	var multiChar []string
	for _, l := range allLocs {
		if utf8.RuneCountInString(l) > 2 {
			multiChar = append(multiChar, l)
		}
	}
	if len(multiChar) > 0 {
		words := strings.Fields(text)
		for i, word := range words {
			if utf8.RuneCountInString(word) <= 2 {
				continue
			}
			cutoff := 0.75
			if utf8.RuneCountInString(word) <= 4 {
				cutoff = 0.85
			}
			hit, found := match.Closest(word, multiChar, cutoff)
			if !found {
				continue
			}
			rest := strings.Join(append(slices.Clone(words[:i]), words[i+1:]...), " ")
			return resolveLoc(hit, canonical), "to", strings.TrimSpace(rest), true
		}
	}

	return "", "", text, false
}

func resolveLoc(candidate string, canonical map[string]string) string {
	if target, ok := canonical[strings.ToLower(candidate)]; ok {
		return target
	}
	return candidate
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
