package rules

import (
	"strconv"
	"strings"
)

// Coerce converts text to a number with the lax rules min and max have
// always used: every character other than a digit, '.' or '-' is dropped,
// then an optional leading '-' and the digits that follow it are read as an
// integer. Input with no leading digits becomes 0, so "abc" compares as 0
// and "1,500" as 1500. Callers depend on this; do not tighten it.
func Coerce(s string) float64 {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' {
			b.WriteByte(c)
		}
	}
	t := b.String()

	i := 0
	neg := false
	if strings.HasPrefix(t, "-") {
		neg = true
		i = 1
	}
	var n float64
	digits := 0
	for ; i < len(t) && t[i] >= '0' && t[i] <= '9'; i++ {
		n = n*10 + float64(t[i]-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// CoerceValue is Coerce for field values. Numeric values pass through.
func CoerceValue(v Value) float64 {
	if n, ok := v.AsNumber(); ok {
		return n
	}
	return Coerce(v.String())
}

// ParseBound reads a rule parameter as a number. Well-formed decimals are
// taken as written; anything else goes through Coerce.
func ParseBound(param string) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(param), 64); err == nil {
		return f
	}
	return Coerce(param)
}
