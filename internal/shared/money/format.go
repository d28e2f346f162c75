// Package money formats decimal amounts for display.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency every trade is recorded in.
const DefaultCurrency = gomoney.USD

// Format renders amount in the given currency, e.g. "$1,505.00" for USD.
// Amounts with more fractional digits than the currency allows are rounded half away from zero.
func Format(amount decimal.Decimal, currency string) string {
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		cur = gomoney.GetCurrency(DefaultCurrency)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatUSD is Format with DefaultCurrency.
func FormatUSD(amount decimal.Decimal) string {
	return Format(amount, DefaultCurrency)
}
