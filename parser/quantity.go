package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/stocktext/stocktext/config"
)

var (
	halfRe = regexp.MustCompile(`(?i)\bhalf\s+a\s+`)
	mulRe  = regexp.MustCompile(`\b(\d+)\s*[x×*]\s*(\d+)\b`)
)

var half = decimal.NewFromFloat(0.5)

// extractQty extracts a quantity and optional container, trying in order:
// "half a <container>", a multiplication expression, a plain integer, and
// finally a bare container (which implies a count of one). A "half" with no
// following container is inert filler. Decimal literals are never matched;
// only integer tokens are.
func extractQty(text string, cfg *config.Config) (qty decimal.Decimal, container, remaining string, ok bool) {
	if loc := halfRe.FindStringIndex(text); loc != nil {
		after := text[loc[1]:]
		if cont, afterCont, found := extractContainer(after, cfg); found {
			remaining = collapseSpace(text[:loc[0]] + " " + afterCont)
			return half, cont, remaining, true
		}
	}

	if m := mulRe.FindStringSubmatchIndex(text); m != nil {
		a := decimal.RequireFromString(text[m[2]:m[3]])
		b := decimal.RequireFromString(text[m[4]:m[5]])
		remaining = cutSpan(text, m[0], m[1])
		cont, rest, found := extractContainer(remaining, cfg)
		if found {
			remaining = rest
		}
		return a.Mul(b), cont, remaining, true
	}

	if m := intRe.FindStringSubmatchIndex(text); m != nil {
		n := decimal.RequireFromString(text[m[2]:m[3]])
		remaining = cutSpan(text, m[0], m[1])
		cont, rest, found := extractContainer(remaining, cfg)
		if found {
			remaining = rest
		}
		return n, cont, remaining, true
	}

	if cont, rest, found := extractContainer(text, cfg); found {
		return decimal.NewFromInt(1), cont, rest, true
	}

	return decimal.Zero, "", text, false
}

// extractContainer finds a known container name (or an alias targeting one),
// longest first, trying an anchored match right after the number before
// scanning the whole text.
func extractContainer(text string, cfg *config.Config) (container, remaining string, ok bool) {
	containers := cfg.Containers()

	canonical := map[string]string{}
	for alias, target := range cfg.Aliases {
		if containsFold(containers, target) {
			canonical[strings.ToLower(alias)] = target
			if !containsFold(containers, alias) {
				containers = append(containers, alias)
			}
		}
	}

	trimmed := strings.TrimSpace(text)
	for _, cont := range byLengthDesc(containers) {
		name := cont
		if target, found := canonical[strings.ToLower(cont)]; found {
			name = target
		}
		for _, variant := range containerVariants(cont) {
			variantQ := regexp.QuoteMeta(variant)
			if start, end, found := findCore(anchoredRe(variantQ), trimmed); found {
				return name, strings.TrimSpace(trimmed[:start] + trimmed[end:]), true
			}
			if start, end, found := findCore(boundaryRe(variantQ), text); found {
				return name, cutSpan(text, start, end), true
			}
		}
	}
	return "", text, false
}

// containerVariants returns the container name plus its English plural form.
// Pluralization only applies to ASCII words.
func containerVariants(container string) []string {
	words := strings.Fields(container)
	if len(words) == 0 {
		return []string{container}
	}
	last := words[len(words)-1]
	variants := []string{container}
	if isASCII(last) {
		plural := last + "s"
		if strings.HasSuffix(last, "x") || strings.HasSuffix(last, "s") ||
			strings.HasSuffix(last, "sh") || strings.HasSuffix(last, "ch") {
			plural = last + "es"
		}
		variants = append(variants, strings.Join(append(slices.Clone(words[:len(words)-1]), plural), " "))
	}
	return variants
}
