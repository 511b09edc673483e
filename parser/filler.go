package parser

import (
	"regexp"

	"github.com/stocktext/stocktext/config"
)

// removeFiller strips configured filler words from the residual text before
// item matching, then collapses whitespace.
func removeFiller(text string, cfg *config.Config) string {
	for _, word := range cfg.FillerWords {
		re := boundaryRe(regexp.QuoteMeta(word))
		for {
			start, end, ok := findCore(re, text)
			if !ok {
				break
			}
			text = text[:start] + " " + text[end:]
		}
	}
	return collapseSpace(text)
}
