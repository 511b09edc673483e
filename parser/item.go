package parser

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/match"
)

// matchItem resolves residual line text to a canonical item name. Matching
// priority, first hit wins: exact substring against canonical items (longest
// candidate first, so "sweet cherry tomatoes" beats "cherry tomatoes"), exact
// substring against alias keys, then whole-text singular/plural, prefix, and
// fuzzy matching, and finally decreasing-length word spans through the same
// resolvers. Returns the canonical name and the exact text span consumed, so
// the review step can offer the span as a learned alias.
func matchItem(text string, cfg *config.Config) (item, matched string) {
	textClean := strings.TrimSpace(text)
	if textClean == "" {
		return "", ""
	}
	textLower := strings.ToLower(textClean)

	for _, candidate := range byLengthDesc(cfg.Items) {
		if strings.Contains(textLower, strings.ToLower(candidate)) {
			return candidate, candidate
		}
	}

	aliasKeys := maps.Keys(cfg.Aliases)
	slices.Sort(aliasKeys)
	for _, alias := range byLengthDesc(aliasKeys) {
		if strings.Contains(textLower, strings.ToLower(alias)) {
			return cfg.Aliases[alias], alias
		}
	}

	// Singular/plural normalization over the whole text.
	depluraled := strings.TrimRight(textLower, "s")
	for _, candidate := range byLengthDesc(cfg.Items) {
		cl := strings.ToLower(candidate)
		if depluraled == cl || depluraled == strings.TrimRight(cl, "s") {
			return candidate, textClean
		}
	}

	// Abbreviation: the text is a prefix of a known item.
	for _, candidate := range byLengthDesc(cfg.Items) {
		if strings.HasPrefix(strings.ToLower(candidate), textLower) {
			return candidate, textClean
		}
	}

	targets := make([]string, 0, len(cfg.Items)+len(aliasKeys))
	targets = append(targets, cfg.Items...)
	targets = append(targets, aliasKeys...)

	if hit, ok := match.Closest(textLower, targets, match.CutoffFor(textLower, 0.6)); ok {
		if resolved := resolveItem(hit, cfg); resolved != "" {
			return resolved, textClean
		}
	}

	// Word spans, longest to shortest, up to four words.
	words := strings.Fields(textLower)
	maxSpan := len(words)
	if maxSpan > 4 {
		maxSpan = 4
	}
	for spanLen := maxSpan; spanLen >= 1; spanLen-- {
		for start := 0; start+spanLen <= len(words); start++ {
			span := strings.Join(words[start:start+spanLen], " ")

			for _, alias := range aliasKeys {
				if strings.ToLower(alias) == span {
					return cfg.Aliases[alias], span
				}
			}
			for _, candidate := range cfg.Items {
				if strings.ToLower(candidate) == span {
					return candidate, span
				}
			}
			if hit, ok := match.Closest(span, targets, match.CutoffFor(span, 0.6)); ok {
				if resolved := resolveItem(hit, cfg); resolved != "" {
					return resolved, span
				}
			}
		}
	}

	return "", ""
}

// resolveItem maps a matched target (item or alias key) back to its
// canonical item name. Aliases take priority, mirroring the order the
// targets were offered in.
func resolveItem(hit string, cfg *config.Config) string {
	hl := strings.ToLower(hit)
	for alias, target := range cfg.Aliases {
		if strings.ToLower(alias) == hl {
			return target
		}
	}
	for _, candidate := range cfg.Items {
		if strings.ToLower(candidate) == hl {
			return candidate
		}
	}
	return ""
}
