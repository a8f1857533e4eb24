package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders a value for the given unit the way the dashboard
// displays it: thousands-grouped, euro amounts collapsed to millions,
// percentages with one decimal. A nil value renders as a dash.
func FormatValue(value *float64, unit string) string {
	if value == nil {
		return "–"
	}
	v := *value

	switch unit {
	case "€":
		if v >= 1000000 {
			return fmt.Sprintf("%s Mio. €", groupThousands(v/1000000, 1))
		}
		return fmt.Sprintf("%s €", groupThousands(v, 0))
	case "%":
		return fmt.Sprintf("%s %%", groupThousands(v, 1))
	default:
		return groupThousands(v, 0)
	}
}

// groupThousands formats v with Austrian digit grouping (dot as
// thousands separator, comma as decimal mark).
func groupThousands(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if fracPart != "" {
		out += "," + fracPart
	}
	return out
}
