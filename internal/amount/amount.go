// Package amount provides tolerance-aware comparison and formatting for
// monetary amounts.
//
// Every money comparison made by the settlement engine goes through IsZero or
// ApproxEqual so that the remainders of uneven divisions (100/3 and friends)
// never surface as phantom debts.
package amount

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var tolerance = decimal.New(1, -2)

// Tolerance returns the largest absolute value still considered zero (one cent).
func Tolerance() decimal.Decimal {
	return tolerance
}

// IsZero reports whether |x| <= Tolerance().
func IsZero(x decimal.Decimal) bool {
	return x.Abs().LessThanOrEqual(tolerance)
}

// ApproxEqual reports whether a and b differ by no more than Tolerance().
func ApproxEqual(a, b decimal.Decimal) bool {
	return IsZero(a.Sub(b))
}

// Positive reports whether x is greater than Tolerance().
func Positive(x decimal.Decimal) bool {
	return x.GreaterThan(tolerance)
}

// Round rounds x to two decimal places, half away from zero.
func Round(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// Sum adds up xs.
func Sum(xs ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, x := range xs {
		total = total.Add(x)
	}
	return total
}

// Format renders x in the given ISO 4217 currency, e.g. "$1,234.50".
// The currency only affects presentation; no conversion ever happens.
// Unknown codes fall back to "1234.50 XYZ".
func Format(x decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return x.StringFixed(2) + " " + code
	}
	minor := x.Abs().Shift(int32(cur.Fraction)).Round(0).IntPart()
	s := cur.Formatter().Format(minor)
	if x.IsNegative() && minor != 0 {
		return "-" + s
	}
	return s
}
