package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	hundred = decimal.NewFromInt(100)
	// x/text groups int64 values; larger ones are grouped digit by digit
	maxGroupable = decimal.NewFromInt(1 << 62)
)

// group renders d rounded to places fraction digits with thousands separators.
func group(d decimal.Decimal, places int32) string {
	rounded := d.Round(places)
	fixed := rounded.Abs().StringFixed(places)
	frac := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		frac = fixed[idx:]
	}
	var out string
	if rounded.Abs().LessThan(maxGroupable) {
		p := message.NewPrinter(language.English)
		out = p.Sprint(number.Decimal(rounded.Abs().Truncate(0).IntPart())) + frac
	} else {
		out = groupDigits(strings.TrimSuffix(fixed, frac)) + frac
	}
	if rounded.IsNegative() {
		return "-" + out
	}
	return out
}

// groupDigits inserts a comma every three digits from the right.
func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatGrouped renders d with thousands separators and two fraction digits
// only when d is not a whole number.
func FormatGrouped(d decimal.Decimal) string {
	if d.Round(2).IsInteger() {
		return group(d, 0)
	}
	return group(d, 2)
}

// FormatFixed renders d with thousands separators and exactly two fraction digits.
func FormatFixed(d decimal.Decimal) string {
	return group(d, 2)
}

// FormatPercent renders a margin percentage; nil renders as "0%".
func FormatPercent(p *decimal.Decimal) string {
	if p == nil {
		return "0%"
	}
	return p.StringFixed(2) + "%"
}
