// Package match provides fuzzy string resolution against a closed vocabulary.
// Items, locations, and action verbs all resolve through the same primitives:
// an exact lookup, an alias lookup, and a similarity-ratio fallback.
package match

import (
	"strings"
	"unicode/utf8"
)

// Kind describes how a piece of text resolved against a candidate list.
type Kind int

const (
	None Kind = iota
	Exact
	Alias
	Fuzzy
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Alias:
		return "alias"
	case Fuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Ratio returns the similarity of two strings as a value in [0, 1] using the
// Ratcliff/Obershelp algorithm: find the longest common substring, then recurse
// on the unmatched pieces to either side of it.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	m := matchingTotal(ra, rb)
	return 2 * float64(m) / float64(len(ra)+len(rb))
}

func matchingTotal(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingTotal(a[:ai], b[:bi])
	total += matchingTotal(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the longest common substring of a and b, preferring
// the leftmost occurrence in a on ties.
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := range a {
		for j := range b {
			if a[i] == b[j] {
				cur[j+1] = prev[j] + 1
				if cur[j+1] > size {
					size = cur[j+1]
					ai = i - size + 1
					bi = j - size + 1
				}
			} else {
				cur[j+1] = 0
			}
		}
		prev, cur = cur, prev
		for j := range cur {
			cur[j] = 0
		}
	}
	return ai, bi, size
}

// Closest returns the candidate most similar to word with a ratio of at least
// cutoff. Candidates are compared case-insensitively; the returned string is
// the candidate as given. The first of equally good candidates wins.
func Closest(word string, candidates []string, cutoff float64) (string, bool) {
	wl := strings.ToLower(word)
	best := ""
	bestRatio := 0.0
	for _, c := range candidates {
		r := Ratio(wl, strings.ToLower(c))
		if r >= cutoff && r > bestRatio {
			best, bestRatio = c, r
		}
	}
	return best, best != ""
}

// CutoffFor raises the cutoff to at least 0.8 for short text, where a low
// similarity bar produces too many false positives.
func CutoffFor(text string, cutoff float64) float64 {
	if utf8.RuneCountInString(text) <= 4 && cutoff < 0.8 {
		return 0.8
	}
	return cutoff
}

// Resolve resolves text against candidates plus an optional alias map. Aliases
// map a surface form to its canonical name; a fuzzy hit on an alias key still
// resolves to the alias target. Returns the canonical name and how it matched.
func Resolve(text string, candidates []string, aliases map[string]string, cutoff float64) (string, Kind) {
	tl := strings.ToLower(strings.TrimSpace(text))
	if tl == "" {
		return "", None
	}

	for _, c := range candidates {
		if strings.ToLower(c) == tl {
			return c, Exact
		}
	}

	for a, target := range aliases {
		if strings.ToLower(a) == tl {
			return target, Alias
		}
	}

	targets := make([]string, 0, len(candidates)+len(aliases))
	targets = append(targets, candidates...)
	for a := range aliases {
		targets = append(targets, a)
	}
	hit, ok := Closest(tl, targets, CutoffFor(tl, cutoff))
	if !ok {
		return "", None
	}
	hl := strings.ToLower(hit)
	for a, target := range aliases {
		if strings.ToLower(a) == hl {
			return target, Fuzzy
		}
	}
	for _, c := range candidates {
		if strings.ToLower(c) == hl {
			return c, Fuzzy
		}
	}
	return "", None
}
