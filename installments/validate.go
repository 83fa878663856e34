package installments

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
)

// Validate fails on an empty schedule, on any negative amount, or when the
// amounts differ from the final total by more than one currency unit.
func Validate(list []generic.Installment, finalTotal decimal.Decimal) error {
	if len(list) == 0 {
		return generic.ErrEmptySchedule
	}
	for i, inst := range list {
		if inst.Amount.IsNegative() {
			return fmt.Errorf("%w: installment %d is %s", generic.ErrNegativeAmount, i+1, inst.Amount)
		}
	}
	sum := generic.SumAmounts(list)
	if !generic.WithinTolerance(sum, finalTotal, generic.SumTolerance) {
		return &generic.SumMismatchError{Sum: sum, FinalTotal: finalTotal}
	}
	return nil
}
