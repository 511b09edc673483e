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

// verbEntry maps one surface form to the transaction type it triggers.
type verbEntry struct {
	word      string
	transType string
}

// verbTable builds the synonym table: configured action verbs, the
// transaction-type names themselves, and aliases targeting a transaction
// type. Entries are ordered longest first so specific phrases win.
func verbTable(cfg *config.Config) []verbEntry {
	var entries []verbEntry

	types := slices.Clone(cfg.TransactionTypes)
	for _, t := range maps.Keys(cfg.ActionVerbs) {
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	slices.SortStableFunc(types[len(cfg.TransactionTypes):], func(a, b string) int {
		return strings.Compare(a, b)
	})

	for _, t := range types {
		for _, v := range cfg.ActionVerbs[t] {
			entries = append(entries, verbEntry{word: v, transType: t})
		}
	}
	for _, t := range cfg.TransactionTypes {
		entries = append(entries, verbEntry{word: t, transType: t})
	}

	aliasKeys := maps.Keys(cfg.Aliases)
	slices.Sort(aliasKeys)
	for _, alias := range aliasKeys {
		target := cfg.Aliases[alias]
		if containsFold(cfg.TransactionTypes, target) {
			entries = append(entries, verbEntry{word: alias, transType: target})
		}
	}

	slices.SortStableFunc(entries, func(a, b verbEntry) int {
		return utf8.RuneCountInString(b.word) - utf8.RuneCountInString(a.word)
	})
	return entries
}

// sepCore builds a regex fragment where underscores in the candidate match
// any of space, underscore, or dash, so "warehouse_to_branch" also matches
// "warehouse-to-branch" and "warehouse to branch".
func sepCore(word string) string {
	return strings.ReplaceAll(regexp.QuoteMeta(word), "_", `[\s_\-]`)
}

// normalizeKey folds separators so phrase spans compare against table
// entries regardless of spelling.
func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), "_"))
}

// extractVerb finds the action verb deciding the transaction type. Tries
// boundary-safe separator-normalized matching longest-candidate-first, then
// two- and three-word phrase spans, then a per-word fuzzy fallback with a
// raised cutoff (verb false positives are destructive).
func extractVerb(text string, cfg *config.Config) (transType, remaining string, ok bool) {
	entries := verbTable(cfg)
	if len(entries) == 0 {
		return "", text, false
	}

	for _, e := range entries {
		var re *regexp.Regexp
		if shortNonASCII(e.word) {
			re = looseRe(sepCore(e.word))
		} else {
			re = boundaryRe(sepCore(e.word))
		}
		if start, end, found := findCore(re, text); found {
			return e.transType, cutSpan(text, start, end), true
		}
	}

	byKey := map[string]string{}
	for _, e := range entries {
		key := normalizeKey(e.word)
		if _, seen := byKey[key]; !seen {
			byKey[key] = e.transType
		}
	}

	words := strings.Fields(text)
	for spanLen := 3; spanLen >= 2; spanLen-- {
		for start := 0; start+spanLen <= len(words); start++ {
			key := normalizeKey(strings.Join(words[start:start+spanLen], " "))
			if t, found := byKey[key]; found {
				rest := strings.Join(append(slices.Clone(words[:start]), words[start+spanLen:]...), " ")
				return t, strings.TrimSpace(rest), true
			}
		}
	}

	candidates := make([]string, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, e.word)
	}
	for i, word := range words {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		cutoff := 0.75
		if utf8.RuneCountInString(word) <= 4 {
			cutoff = 0.85
		}
		hit, found := match.Closest(word, candidates, cutoff)
		if !found {
			continue
		}
		for _, e := range entries {
			if e.word == hit {
				rest := strings.Join(append(slices.Clone(words[:i]), words[i+1:]...), " ")
				return e.transType, strings.TrimSpace(rest), true
			}
		}
	}

	return "", text, false
}

// hasFromWord cheaply gates supplier extraction.
func hasFromWord(text string, cfg *config.Config) bool {
	tl := strings.ToLower(text)
	for _, w := range cfg.FromWords {
		if strings.Contains(tl, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// extractSupplier captures the trailing phrase after a "from" word as a
// supplier note, unless that phrase is itself a known location (already
// handled by location extraction).
func extractSupplier(text string, cfg *config.Config) (supplier, remaining string, ok bool) {
	for _, w := range cfg.FromWords {
		var re *regexp.Regexp
		if shortNonASCII(w) {
			re = cachedRe(`(?i)` + regexp.QuoteMeta(w) + `[\-\s]*(.+)$`)
		} else {
			re = cachedRe(`(?i)\b` + regexp.QuoteMeta(w) + `\s+(.+)$`)
		}
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		captured := strings.TrimSpace(text[m[2]:m[3]])
		if cfg.IsLocation(captured) {
			continue
		}
		return captured, strings.TrimSpace(text[:m[0]]), true
	}
	return "", text, false
}
