package parser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/stocktext/stocktext/record"
)

var (
	signRe = regexp.MustCompile(`^\s*[+\-]\s*`)
	tookRe = regexp.MustCompile(`(?i)^took\s+(\d+)\s+out\s+of\s+(\d+)\s+(.+)`)
	intRe  = regexp.MustCompile(`\b(\d+)\b`)

	dotDateRe   = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{2,4})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	sixDigitRe  = regexp.MustCompile(`\b(\d{6})\b`)
)

// extractDate tries DD.MM.YY[YY], then M/DD/YY[YY], then a bare six-digit
// DDMMYY, removing the first valid match from the text. Invalid calendar
// dates fall through to the next pattern rather than erroring.
func extractDate(text string) (time.Time, string, bool) {
	if m := dotDateRe.FindStringSubmatchIndex(text); m != nil {
		day := num(text, m, 1)
		month := num(text, m, 2)
		year := num(text, m, 3)
		if d, ok := record.MakeDate(year, month, day); ok {
			return d, cutSpan(text, m[0], m[1]), true
		}
	}
	if m := slashDateRe.FindStringSubmatchIndex(text); m != nil {
		month := num(text, m, 1)
		day := num(text, m, 2)
		year := num(text, m, 3)
		if d, ok := record.MakeDate(year, month, day); ok {
			return d, cutSpan(text, m[0], m[1]), true
		}
	}
	if m := sixDigitRe.FindStringSubmatchIndex(text); m != nil {
		s := text[m[2]:m[3]]
		day, _ := strconv.Atoi(s[0:2])
		month, _ := strconv.Atoi(s[2:4])
		year, _ := strconv.Atoi(s[4:6])
		if d, ok := record.MakeDate(year, month, day); ok {
			return d, cutSpan(text, m[0], m[1]), true
		}
	}
	return time.Time{}, text, false
}

func num(text string, m []int, group int) int {
	n, _ := strconv.Atoi(text[m[2*group]:m[2*group+1]])
	return n
}
