// Package money holds the total, panic-free arithmetic behind the booking
// amount fields. Every function here runs on each keystroke, so malformed input
// degrades to 0 or "" instead of producing an error.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SanitizeAmountText keeps ASCII digits and the first decimal point of raw.
func SanitizeAmountText(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	seenDot := false
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '.' && !seenDot:
			seenDot = true
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// Parse coerces text into a float. Empty, malformed and non-finite input yields 0.
func Parse(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseDecimal coerces text into a decimal with the same rules as Parse.
func ParseDecimal(text string) decimal.Decimal {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(text); err == nil {
		return d
	}
	if v := Parse(text); v != 0 {
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// ParseFormatted parses a value previously rendered with grouping separators,
// such as a computed home amount.
func ParseFormatted(text string) decimal.Decimal {
	return ParseDecimal(strings.ReplaceAll(text, ",", ""))
}
