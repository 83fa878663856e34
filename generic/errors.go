/*
errors.go - Centralized error types for the contract engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Distribution errors - Rejected installment strategies (state is kept)
  2. Validation errors - Schedules whose sum drifts from the contract total
  3. Store errors - Missing contracts, malformed records

NOTE:
  A missing price is NOT an error. The pricing resolver reports it as an
  invalid decimal.NullDecimal and callers decide how to display it.

USAGE:
  if errors.Is(err, generic.ErrSumMismatch) {
      var mismatch *generic.SumMismatchError
      errors.As(err, &mismatch)
  }

SEE ALSO:
  - installments/scheduler.go: Returns distribution errors
  - installments/validate.go: Returns SumMismatchError
*/
package generic

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNonPositiveTotal is returned when a strategy is asked to distribute
	// a final total of zero or less.
	ErrNonPositiveTotal = errors.New("final total must be positive")

	// ErrFirstPaymentOutOfRange is returned when the first payment is
	// negative or larger than the final total.
	ErrFirstPaymentOutOfRange = errors.New("first payment out of range")

	// ErrEmptySchedule is returned when validating a schedule with no installments.
	ErrEmptySchedule = errors.New("no installments")

	// ErrNegativeAmount is returned when an installment amount is below zero.
	ErrNegativeAmount = errors.New("installment amount must not be negative")

	// ErrSumMismatch is returned when installments do not add up to the total.
	ErrSumMismatch = errors.New("installments do not sum to final total")

	// ErrIndexOutOfRange is returned when removing a non-existent installment.
	ErrIndexOutOfRange = errors.New("installment index out of range")

	// ErrInvalidInterval is returned for an unrecognized recurring interval.
	ErrInvalidInterval = errors.New("invalid payment interval")

	// ErrInvalidDate is returned for dates that are not ISO "YYYY-MM-DD".
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPeriod is returned when a contract ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrContractNotFound is returned when no schedule is stored for a contract.
	ErrContractNotFound = errors.New("contract not found")

	// ErrInvalidPriceRow is returned when an imported price row is malformed.
	ErrInvalidPriceRow = errors.New("invalid price row")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SumMismatchError provides details about a schedule that drifts from its total.
type SumMismatchError struct {
	Sum        decimal.Decimal
	FinalTotal decimal.Decimal
}

func (e *SumMismatchError) Error() string {
	return fmt.Sprintf("installments sum to %s, final total is %s (difference %s)",
		e.Sum, e.FinalTotal, e.Difference())
}

// Difference is Sum - FinalTotal.
func (e *SumMismatchError) Difference() decimal.Decimal {
	return e.Sum.Sub(e.FinalTotal)
}

func (e *SumMismatchError) Unwrap() error {
	return ErrSumMismatch
}

// FirstPaymentError provides details about a rejected first payment.
type FirstPaymentError struct {
	FirstPayment decimal.Decimal
	FinalTotal   decimal.Decimal
}

func (e *FirstPaymentError) Error() string {
	return fmt.Sprintf("first payment %s must be between 0 and %s", e.FirstPayment, e.FinalTotal)
}

func (e *FirstPaymentError) Unwrap() error {
	return ErrFirstPaymentOutOfRange
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNonPositiveTotal) ||
		errors.Is(err, ErrFirstPaymentOutOfRange) ||
		errors.Is(err, ErrEmptySchedule) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrSumMismatch) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidPriceRow)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound)
}
