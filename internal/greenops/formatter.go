package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators: 18248 -> "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with thousand separators and exactly precision
// fractional digits: FormatFloat(1234.567, 2) -> "1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision <= 0 {
		return FormatNumber(int64(math.Round(f)))
	}

	s := strconv.FormatFloat(f, 'f', precision, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s
	}

	grouped := FormatNumber(n)
	// -0.5 formats as "-0" + ".50"; ParseInt drops the sign of zero.
	if n == 0 && strings.HasPrefix(intPart, "-") {
		grouped = "-" + grouped
	}
	return grouped + "." + frac
}

// FormatLarge abbreviates values of a million and above ("~1.5 billion");
// smaller values use FormatNumber.
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= MillionThreshold:
		return fmt.Sprintf("~%.1f million", n/MillionThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}
