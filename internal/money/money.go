// Package money formats the integer-cent amounts the rest of the system
// carries. Accumulation always happens in cents; decimals only appear at
// the display edge.
package money

import "github.com/shopspring/decimal"

// Format renders cents as a fixed two-decimal dollar string: 1250 -> "12.50".
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// FormatDollars is Format with a leading dollar sign.
func FormatDollars(cents int64) string {
	return "$" + Format(cents)
}
