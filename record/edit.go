package record

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var mulExprRe = regexp.MustCompile(`^(\d+)\s*[x×*]\s*(\d+)$`)

// EvalQty evaluates a quantity entered during review: a plain number or a
// NxM / N×M / N*M product.
func EvalQty(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if m := mulExprRe.FindStringSubmatch(text); m != nil {
		a, _ := decimal.NewFromString(m[1])
		b, _ := decimal.NewFromString(m[2])
		return a.Mul(b), true
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var (
	dotDateRe   = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	sixDigitRe  = regexp.MustCompile(`^\d{6}$`)
)

// ParseDate parses a date entered during review. Supports DD.MM.YY[YY],
// M/DD/YY[YY], bare DDMMYY, and ISO YYYY-MM-DD. Invalid calendar dates fail
// rather than rolling over into the next month.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)

	if m := dotDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := MakeDate(atoi(m[3]), atoi(m[2]), atoi(m[1])); ok {
			return d, true
		}
	}
	if m := slashDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := MakeDate(atoi(m[3]), atoi(m[1]), atoi(m[2])); ok {
			return d, true
		}
	}
	if sixDigitRe.MatchString(text) {
		if d, ok := MakeDate(atoi(text[4:6]), atoi(text[2:4]), atoi(text[0:2])); ok {
			return d, true
		}
	}
	if t, err := time.Parse("2006-01-02", text); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// MakeDate builds a UTC date from components, expanding two-digit years to
// 20xx and rejecting dates that do not exist on the calendar.
func MakeDate(year, month, day int) (time.Time, bool) {
	if year < 100 {
		year += 2000
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
