package feed

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// parseDecimal handles locale-mangled numbers like "12 500,50": whitespace
// (including nbsp thousand separators) is stripped, a comma decimal
// separator becomes a dot, and anything that still fails to parse is zero.
func parseDecimal(raw string) float64 {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseRoundedInt(raw string) int {
	return int(math.Round(parseDecimal(raw)))
}
