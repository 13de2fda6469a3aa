package query

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders a whole-dollar amount with thousands separators,
// e.g. 281000 -> "$281,000". Non-finite amounts render as ∞, -∞ or NaN.
func FormatCurrency(amount float64) string {
	return "$" + formatWhole(amount)
}

// FormatCount renders an integer count without grouping, matching how
// counts appear in answer sentences and tables.
func FormatCount(n int) string {
	return strconv.Itoa(n)
}

// FormatPercent renders a value already rounded to two decimals using its
// shortest form: 22.22 -> "22.22%", 11.9 -> "11.9%", 25 -> "25%".
func FormatPercent(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN%"
	case math.IsInf(v, 1):
		return "Infinity%"
	case math.IsInf(v, -1):
		return "-Infinity%"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// RoundHalfUp rounds to the nearest integer with halves going up.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func RoundTo2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

func formatWhole(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	return printer.Sprintf("%d", int64(RoundHalfUp(v)))
}
