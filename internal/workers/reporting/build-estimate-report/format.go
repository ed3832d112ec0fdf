// internal/workers/reporting/build-estimate-report/format.go
package buildestimatereport

import (
	"math"
	"strconv"
	"strings"
)

// The formatters are the only place estimates get rounded; the numeric
// calculator outputs carried alongside the report keep full precision.

// formatCurrency rounds half up to cents and renders "USD 1,234.56".
func formatCurrency(code string, amount float64) string {
	cents := math.Round(amount*100) / 100
	s := strconv.FormatFloat(cents, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = strings.TrimPrefix(s, "-")
	}
	parts := strings.SplitN(s, ".", 2)
	out := groupThousands(parts[0]) + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return code + " " + out
}

// formatPercent rounds half up to a tenth of a point: "35.0%".
func formatPercent(value float64) string {
	return strconv.FormatFloat(math.Round(value*10)/10, 'f', 1, 64) + "%"
}

// formatRatio renders efficiency multiples: "4.70x".
func formatRatio(value float64) string {
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', 2, 64) + "x"
}

// formatMonths renders the payback horizon, "n/a" when undefined.
func formatMonths(months *float64) string {
	if months == nil {
		return "n/a"
	}
	return strconv.FormatFloat(math.Round(*months*10)/10, 'f', 1, 64) + " months"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
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
