package parser

import (
	"regexp"
	"strings"
)

// Boilerplate markers messaging apps insert around forwarded or edited text.
var metadataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<This message was edited>`),
	regexp.MustCompile(`(?i)<Media omitted>`),
}

func stripMetadata(text string) string {
	for _, pattern := range metadataPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
