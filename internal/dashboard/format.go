package dashboard

import (
	"github.com/shopspring/decimal"
)

// Style classes for values in the list and the summary panel.
const (
	ClassGreen = "green"
	ClassRed   = "red"
	ClassWhite = "white"
)

// Colours behind each style class.
var ClassColors = map[string]string{
	ClassGreen: "#50f291",
	ClassRed:   "rgb(246, 57, 57)",
	ClassWhite: "#FFFFFF",
}

// FormatBookValue formats a book value as $X.XXX.
func FormatBookValue(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(3)
}

// FormatPercent formats a percentage change as X.XX%. The sign is kept, so
// losses read -2.50%.
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2) + "%"
}

// FormatRawBookValue formats a book value as $ plus its shortest exact
// decimal form, without rounding.
func FormatRawBookValue(v float64) string {
	return "$" + decimal.NewFromFloat(v).String()
}

// FormatRawPercent formats a percentage change without rounding.
func FormatRawPercent(p float64) string {
	return decimal.NewFromFloat(p).String() + "%"
}

// ChangeClass returns green for a strictly positive change and red
// otherwise. Zero is red.
func ChangeClass(p float64) string {
	if p > 0 {
		return ClassGreen
	}
	return ClassRed
}
