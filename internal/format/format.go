// Package format renders numbers the way the call script and reports
// display them.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Money renders v as whole dollars with thousands separators, e.g. "$1,040,000".
// Negative values keep their sign in front of the dollar sign.
func Money(v float64) string {
	rounded := math.Round(v)
	if rounded < 0 {
		return "-$" + printer.Sprintf("%d", int64(-rounded))
	}
	return "$" + printer.Sprintf("%d", int64(rounded))
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent renders v with one decimal and a percent sign.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// SignedPercent renders v with an explicit sign, e.g. "+4.2%".
func SignedPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// Range renders a price range, e.g. "$950,000 - $1,100,000". An empty
// range renders as "n/a".
func Range(lo, hi float64) string {
	if lo == 0 && hi == 0 {
		return "n/a"
	}
	return strings.Join([]string{Money(lo), Money(hi)}, " - ")
}
