package budgeting

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places of every amount this package reports.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to MoneyPlaces. Sums and conversions keep full
// precision internally and are rounded only when they leave the package.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Percentage returns spent as a percentage of allocated, or zero when nothing is allocated.
func Percentage(spent, allocated decimal.Decimal) decimal.Decimal {
	if !allocated.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(allocated).Mul(hundred)
}
