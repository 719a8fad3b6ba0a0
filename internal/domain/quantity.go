package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// QuantityDisplayDigits is the number of fraction digits used when quantities
// are rendered, independent of any currency configuration.
const QuantityDisplayDigits int32 = 3

func toDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// AddQuantities returns a+b. The sum is computed in decimal so that applying a
// quantity and reversing it lands back on the exact starting value.
func AddQuantities(a, b float64) float64 {
	return toDecimal(a).Add(toDecimal(b)).InexactFloat64()
}

// SubtractQuantities returns a-b.
func SubtractQuantities(a, b float64) float64 {
	return toDecimal(a).Sub(toDecimal(b)).InexactFloat64()
}

// MultiplyAmounts returns a*b.
func MultiplyAmounts(a, b float64) float64 {
	return toDecimal(a).Mul(toDecimal(b)).InexactFloat64()
}

// SumAmounts adds all values.
func SumAmounts(values ...float64) float64 {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(toDecimal(v))
	}
	return sum.InexactFloat64()
}

// FormatQuantity renders a quantity with QuantityDisplayDigits fraction digits.
func FormatQuantity(q float64) string {
	return toDecimal(q).StringFixed(QuantityDisplayDigits)
}

// FormatMoney renders an amount with the given number of fraction digits.
func FormatMoney(amount float64, digits int32) string {
	if digits < 0 {
		digits = 0
	}
	return toDecimal(amount).StringFixed(digits)
}
