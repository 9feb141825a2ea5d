package templates

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func FormatInt(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatMoney renders d rounded to places with the integer part grouped.
// The fraction comes from the decimal itself so no float rounding creeps in.
func FormatMoney(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	whole, frac, hasFrac := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + fixed
	}

	out := sign + FormatInt(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}
