package parser

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

// Word-boundary matching has to work for scripts RE2's ASCII \b does not
// cover, so patterns are built with explicit letter/digit boundary classes
// and the interesting span captured as group 1.

var (
	reCacheMu sync.Mutex
	reCache   = map[string]*regexp.Regexp{}
)

func cachedRe(pattern string) *regexp.Regexp {
	reCacheMu.Lock()
	defer reCacheMu.Unlock()
	if re, ok := reCache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile(pattern)
	reCache[pattern] = re
	return re
}

// boundaryRe wraps a regex fragment in word boundaries: the fragment must
// not be preceded or followed by a letter, digit, or underscore. This keeps
// a single-letter location code from matching inside a longer word.
func boundaryRe(core string) *regexp.Regexp {
	return cachedRe(`(?i)(?:^|[^\p{L}\p{N}_])(` + core + `)(?:[^\p{L}\p{N}_]|$)`)
}

// looseRe anchors a fragment on whitespace only. Used for short non-ASCII
// prefix words that attach directly to the following word in some scripts.
func looseRe(core string) *regexp.Regexp {
	return cachedRe(`(?i)(?:^|\s)(` + core + `)(?:\s|$)`)
}

// anchoredRe matches a fragment at the very start of the text, followed by a
// word boundary.
func anchoredRe(core string) *regexp.Regexp {
	return cachedRe(`(?i)^(` + core + `)(?:[^\p{L}\p{N}_]|$)`)
}

// findCore returns the span of capture group 1, the fragment itself without
// the surrounding boundary characters.
func findCore(re *regexp.Regexp, text string) (start, end int, ok bool) {
	m := re.FindStringSubmatchIndex(text)
	if m == nil {
		return 0, 0, false
	}
	return m[2], m[3], true
}

var spaceRe = regexp.MustCompile(`\s+`)

// cutSpan removes text[start:end] and tidies the surrounding whitespace.
func cutSpan(text string, start, end int) string {
	return collapseSpace(text[:start] + " " + text[end:])
}

func collapseSpace(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// shortNonASCII reports whether a word is a short non-Latin token, such as a
// single-letter Hebrew preposition, which needs loose rather than
// boundary-class anchoring.
func shortNonASCII(s string) bool {
	return utf8.RuneCountInString(s) <= 2 && !isASCII(s)
}

// byLengthDesc returns a copy of words sorted longest first, preserving the
// given order among equal lengths so configuration order stays meaningful.
func byLengthDesc(words []string) []string {
	sorted := slices.Clone(words)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})
	return sorted
}
