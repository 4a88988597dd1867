// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue formats a category value or total. Whole numbers get comma
// separators, fractional values keep at most two decimals.
// e.g., 1234 -> "1,234", 12.5 -> "12.5", -0.004 -> "0"
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}

	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return strconv.FormatFloat(v, 'g', 6, 64)
	}

	out := FormatNumber(n)
	if frac != "" {
		out += "." + frac
	}
	if v < 0 && out != "0" {
		out = "-" + out
	}
	return out
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatPoints formats a 0-100 percentage as stored on a ring.
func FormatPoints(p float64) string {
	return FormatValue(p) + "%"
}

// FormatLength formats a geometric length with two decimals.
func FormatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatDegrees formats an angle in degrees.
// e.g., -90 -> "-90.0°"
func FormatDegrees(deg float64) string {
	return fmt.Sprintf("%.1f°", deg)
}
