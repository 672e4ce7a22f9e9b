package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders numbers with British grouping (1,234,567).
var printer = message.NewPrinter(language.BritishEnglish)

// GBP formats a value as whole pounds.
func GBP(v float64) string {
	return printer.Sprintf("£%d", int64(math.Round(v)))
}

// GBPPence formats a value to the penny, for monthly figures.
func GBPPence(v float64) string {
	return printer.Sprintf("£%.2f", v)
}

// Pct formats a percentage to two decimal places.
func Pct(v float64) string {
	return printer.Sprintf("%.2f%%", v)
}
