package generic

import "github.com/shopspring/decimal"

// =============================================================================
// MONEY - Cent arithmetic on decimal amounts
// =============================================================================

var (
	// SumTolerance is how far a schedule may drift from its total.
	SumTolerance = decimal.NewFromInt(1)

	// EqualAmountTolerance is how close two installments must be to group.
	EqualAmountTolerance = decimal.RequireFromString("0.01")

	hundred = decimal.NewFromInt(100)
)

// FloorCents truncates toward negative infinity at two decimal places.
func FloorCents(d decimal.Decimal) decimal.Decimal { return d.RoundFloor(2) }

// RoundCents rounds half away from zero at two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// PercentOf returns pct% of total, with pct clamped to [0,100].
func PercentOf(total, pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return RoundCents(total.Mul(pct).Div(hundred))
}

// WithinTolerance reports |a-b| <= tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// SplitEvenly divides total into count parts floored to the cent; the last
// part absorbs the rounding remainder so the parts sum exactly to total.
func SplitEvenly(total decimal.Decimal, count int) []decimal.Decimal {
	if count < 1 {
		return nil
	}
	even := FloorCents(total.Div(decimal.NewFromInt(int64(count))))
	parts := make([]decimal.Decimal, count)
	for i := 0; i < count-1; i++ {
		parts[i] = even
	}
	parts[count-1] = total.Sub(even.Mul(decimal.NewFromInt(int64(count - 1))))
	return parts
}

// ClampCount bounds an installment count to [1,12].
func ClampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxInstallments {
		return MaxInstallments
	}
	return n
}

// MaxInstallments is the largest schedule any strategy produces.
const MaxInstallments = 12
