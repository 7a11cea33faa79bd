package decimal

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// Cents rounds an amount to cents using banker's rounding
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Annual converts a monthly amount to annual
func Annual(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(twelve)
}

// Monthly converts an annual amount to monthly
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}

// MonthlyRate returns the monthly-equivalent rate of an annual nominal rate,
// (1+annual)^(1/12) - 1, so that twelve monthly compoundings equal one annual one.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	a := annual.InexactFloat64()
	if a <= -1 {
		return one.Neg()
	}
	return decimal.NewFromFloat(math.Pow(1+a, 1.0/12.0) - 1)
}

// Compound grows an amount by rate over the given number of periods
func Compound(amount, rate decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return amount
	}
	return amount.Mul(one.Add(rate).Pow(decimal.NewFromInt(int64(periods))))
}

// Grow applies a single period of growth at rate
func Grow(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(one.Add(rate))
}

// NonNegative floors an amount at zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Clamp bounds d to [lo, hi]
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(d, hi))
}

// Sum adds all amounts
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Percent returns d as a percentage value (0.05 -> 5)
func Percent(d decimal.Decimal) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(100))
}

// ApproxEqual reports whether a and b differ by at most tolerance
func ApproxEqual(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
