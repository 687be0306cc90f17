package domain

import "github.com/shopspring/decimal"

// CurrencyCode identifies one of the supported currencies.
// Amounts are always stored as integers in the currency's minor unit.
type CurrencyCode string

const (
	CurrencyVND CurrencyCode = "VND"
	CurrencySGD CurrencyCode = "SGD"
)

// minorUnitExponent is the number of decimal places in the minor unit
var minorUnitExponent = map[CurrencyCode]int32{
	CurrencyVND: 0,
	CurrencySGD: 2,
}

// Valid reports whether the code is one of the supported currencies
func (c CurrencyCode) Valid() bool {
	_, ok := minorUnitExponent[c]
	return ok
}

// DisplayAmount converts a minor-unit amount into its display value,
// e.g. 150050 SGD minor units -> 1500.50
func (c CurrencyCode) DisplayAmount(amount int64) decimal.Decimal {
	exp, ok := minorUnitExponent[c]
	if !ok {
		return decimal.NewFromInt(amount)
	}
	return decimal.New(amount, -exp)
}
