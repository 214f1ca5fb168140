// Package money holds the fixed-point rules used for order amounts.
// Every amount is rounded half-up to two decimal places.
package money

import "github.com/shopspring/decimal"

const Places = 2

var hundred = decimal.NewFromInt(100)

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// CommissionSplit returns fee = round(total*rate, 2) and net = total - fee,
// so fee + net always equals the rounded total exactly.
func CommissionSplit(total, rate decimal.Decimal) (fee, net decimal.Decimal) {
	total = Round(total)
	fee = Round(total.Mul(rate))
	net = total.Sub(fee)
	return fee, net
}

// RateFromPercent converts a stored percentage such as 5.00 into 0.05.
func RateFromPercent(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

// GrossAmount is the charge in whole currency units; sub-units are dropped.
func GrossAmount(total decimal.Decimal) int64 {
	return total.Truncate(0).IntPart()
}

func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, values...)
}
