// Package currency converts between major currency units and the integer
// milliunit representation used everywhere inside the application
// (1 major unit = 1000 milliunits, the YNAB convention). All waterfall
// arithmetic happens on milliunits; decimals exist only at the edges.
package currency

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// MilliunitsPerMajor is the number of minor units in one major unit.
const MilliunitsPerMajor = 1000

var milliFactor = decimal.NewFromInt(MilliunitsPerMajor)

// FromMajor converts a major-unit decimal amount to milliunits,
// truncating any fraction below a milliunit.
func FromMajor(amount decimal.Decimal) int64 {
	return amount.Mul(milliFactor).IntPart()
}

// ToMajor converts milliunits back to a major-unit decimal.
func ToMajor(milliunits int64) decimal.Decimal {
	return decimal.NewFromInt(milliunits).Div(milliFactor)
}

// Format renders milliunits as a display string with a currency symbol,
// thousands separators and two decimal places, e.g. "$1,234.56".
func Format(milliunits int64, symbol string) string {
	major := ToMajor(milliunits)
	f, _ := major.Float64()
	if f < 0 {
		return "-" + symbol + humanize.FormatFloat("#,###.##", -f)
	}
	return symbol + humanize.FormatFloat("#,###.##", f)
}
