package shared

import "github.com/shopspring/decimal"

// BalanceTolerance is the monetary epsilon for two-decimal currency.
// Every balance and journal comparison goes through it.
var BalanceTolerance = decimal.New(1, -2)

// AmountsDiffer reports whether |a-b| exceeds the tolerance.
// A stored balance is only overwritten when this is true.
func AmountsDiffer(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(BalanceTolerance)
}

// AmountsBalance reports whether |a-b| is strictly below the tolerance.
// A difference of exactly 0.01 does not balance.
func AmountsBalance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(BalanceTolerance)
}
