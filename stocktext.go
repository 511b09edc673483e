// Package stocktext turns free-form inventory messages, as sent in a group
// chat, into structured double-entry transaction rows.
//
// This package is a thin facade over the subpackages; most programs will use
// parser, config, and record directly.
package stocktext

import (
	"time"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/parser"
	"github.com/stocktext/stocktext/record"
)

// Parse converts one message into transaction rows using today's date for
// lines that carry none.
func Parse(text string, cfg *config.Config) *record.Result {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return parser.Parse(text, cfg, today)
}
