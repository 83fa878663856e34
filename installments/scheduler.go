/*
Package installments distributes a contract's final total into a payment
schedule, validates it and renders it as contract text.

STRATEGIES:
  Even split:        count equal installments, first on signing
  First + recurring: a first payment (amount or percent) then equal
                     recurring installments every 1-4 months
  Manual:            zero-amount placeholders filled in by hand

EXACT SUM:
  Every split floors each installment to the cent and gives the rounding
  remainder to the last one, so amounts always add up to the total.

REJECTED INPUT:
  Strategies return an error for a non-positive total or an out-of-range
  first payment and leave the Scheduler's installments untouched.

SEE ALSO:
  - duedate.go: Due-date rule
  - validate.go: Sum check with a one-unit tolerance
  - summary.go: Grouping and clause text
*/
package installments

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
	"go.uber.org/zap"
)

// Strategy names, as reported to the Recorder.
const (
	StrategyEven     = "even"
	StrategyInterval = "interval"
	StrategyManual   = "manual"
)

// defaultRecurringMonths is the span covered when neither a payment count
// nor a last payment date is given.
const defaultRecurringMonths = 6

// Recorder receives distribution outcomes.
type Recorder interface {
	ObserveDistribution(strategy string, ok bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDistribution(string, bool) {}

// Description labels the installment at a zero-based position.
func Description(index int) string {
	if index == 0 {
		return "الدفعة الأولى"
	}
	return fmt.Sprintf("الدفعة %d", index+1)
}

// =============================================================================
// PURE BUILDERS
// =============================================================================

// EvenSplit divides total into count (clamped to [1,12]) installments.
// The first is due on signing; the rest are monthly.
func EvenSplit(period generic.Period, total decimal.Decimal, count int) ([]generic.Installment, error) {
	if !total.IsPositive() {
		return nil, generic.ErrNonPositiveTotal
	}
	count = generic.ClampCount(count)
	amounts := generic.SplitEvenly(total, count)
	list := seriesSkeleton(period, count)
	for i := range list {
		list[i].Amount = amounts[i]
	}
	return list, nil
}

// ManualPlaceholders returns count (clamped to [1,12]) zero-amount
// installments with the even-split labels and due dates.
func ManualPlaceholders(period generic.Period, count int) []generic.Installment {
	return seriesSkeleton(period, generic.ClampCount(count))
}

func seriesSkeleton(period generic.Period, count int) []generic.Installment {
	list := make([]generic.Installment, count)
	for i := range list {
		pt := generic.PaymentMonthly
		if i == 0 {
			pt = generic.PaymentOnSigning
		}
		list[i] = generic.Installment{
			Amount:      decimal.Zero,
			PaymentType: pt,
			Description: Description(i),
			DueDate:     DueDate(period, pt, i-1, nil),
		}
	}
	return list
}

// IntervalPlan configures a first payment followed by recurring installments.
type IntervalPlan struct {
	FirstPayment     decimal.Decimal
	FirstPaymentKind FirstPaymentKind
	Interval         Interval

	// NumPayments is the recurring count; 0 means not given.
	NumPayments int

	// LastPaymentDate derives the recurring count when NumPayments is 0.
	LastPaymentDate generic.Date

	// FirstPaymentDate anchors the series; zero means the contract start.
	FirstPaymentDate generic.Date
}

// ActualFirstPayment converts a percent plan to an amount.
func (p IntervalPlan) ActualFirstPayment(total decimal.Decimal) decimal.Decimal {
	if p.FirstPaymentKind == FirstPaymentPercent {
		return generic.PercentOf(total, p.FirstPayment)
	}
	return p.FirstPayment
}

// RecurringCount decides how many recurring installments follow the first
// payment: explicit count, then last payment date, then a six-month default.
func (p IntervalPlan) RecurringCount(firstDate generic.Date) int {
	months := p.Interval.Months()
	switch {
	case p.NumPayments != 0:
		return generic.ClampCount(p.NumPayments)
	case !p.LastPaymentDate.IsZero():
		return max(1, generic.MonthsBetween(firstDate, p.LastPaymentDate)/months)
	default:
		return max(1, defaultRecurringMonths/months)
	}
}

// IntervalSplit builds a first payment plus recurring installments.
func IntervalSplit(period generic.Period, total decimal.Decimal, plan IntervalPlan) ([]generic.Installment, error) {
	if !total.IsPositive() {
		return nil, generic.ErrNonPositiveTotal
	}
	if plan.Interval.Months() < 1 {
		return nil, generic.ErrInvalidInterval
	}

	first := plan.ActualFirstPayment(total)
	if first.IsNegative() || first.GreaterThan(total) {
		return nil, &generic.FirstPaymentError{FirstPayment: first, FinalTotal: total}
	}

	firstDate := period.Start
	if !plan.FirstPaymentDate.IsZero() {
		firstDate = plan.FirstPaymentDate
	}

	var list []generic.Installment
	if first.IsPositive() {
		list = append(list, generic.Installment{
			Amount:      first,
			PaymentType: generic.PaymentOnSigning,
			Description: Description(0),
			DueDate:     firstDate,
		})
		if first.Equal(total) {
			return list, nil
		}
	}

	count := plan.RecurringCount(firstDate)
	amounts := generic.SplitEvenly(total.Sub(first), count)

	offset := 0
	if first.IsPositive() {
		offset = 1
	}
	for i, amount := range amounts {
		list = append(list, generic.Installment{
			Amount:      amount,
			PaymentType: plan.Interval.PaymentType(),
			Description: Description(len(list)),
			DueDate:     firstDate.AddMonths((i + offset) * plan.Interval.Months()),
		})
	}
	return list, nil
}

// =============================================================================
// SCHEDULER - Editable schedule of one contract
// =============================================================================

// Scheduler holds the installments of one contract while it is being
// edited. It is not safe for concurrent use.
type Scheduler struct {
	Period     generic.Period
	FinalTotal decimal.Decimal

	installments []generic.Installment
	logger       *zap.Logger
	recorder     Recorder
}

// NewScheduler creates an empty schedule for a contract.
func NewScheduler(period generic.Period, finalTotal decimal.Decimal, logger *zap.Logger, recorder Recorder) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Scheduler{
		Period:     period,
		FinalTotal: finalTotal,
		logger:     logger,
		recorder:   recorder,
	}
}

// Installments returns a copy of the current schedule.
func (s *Scheduler) Installments() []generic.Installment {
	return append([]generic.Installment(nil), s.installments...)
}

// Load replaces the schedule, e.g. with one read back from a contract.
func (s *Scheduler) Load(list []generic.Installment) {
	s.installments = append([]generic.Installment(nil), list...)
}

// DistributeEvenly replaces the schedule with an even split.
func (s *Scheduler) DistributeEvenly(count int) error {
	list, err := EvenSplit(s.Period, s.FinalTotal, count)
	return s.apply(StrategyEven, list, err)
}

// DistributeWithInterval replaces the schedule with a first payment plus
// recurring installments.
func (s *Scheduler) DistributeWithInterval(plan IntervalPlan) error {
	list, err := IntervalSplit(s.Period, s.FinalTotal, plan)
	return s.apply(StrategyInterval, list, err)
}

// CreateManualInstallments replaces the schedule with zero-amount placeholders.
func (s *Scheduler) CreateManualInstallments(count int) error {
	if !s.FinalTotal.IsPositive() {
		return s.apply(StrategyManual, nil, generic.ErrNonPositiveTotal)
	}
	return s.apply(StrategyManual, ManualPlaceholders(s.Period, count), nil)
}

func (s *Scheduler) apply(strategy string, list []generic.Installment, err error) error {
	s.recorder.ObserveDistribution(strategy, err == nil)
	if err != nil {
		s.logger.Warn("distribution rejected",
			zap.String("strategy", strategy),
			zap.String("final_total", s.FinalTotal.String()),
			zap.Error(err),
		)
		return err
	}
	s.installments = list
	return nil
}

// Unallocated is the part of the final total not yet assigned, floored at 0.
func (s *Scheduler) Unallocated() decimal.Decimal {
	rest := s.FinalTotal.Sub(generic.SumAmounts(s.installments))
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// AddInstallment appends one installment for the unallocated remainder.
// The first installment of an empty schedule is due on signing; later ones
// continue the monthly series. The due-date rule is applied at the
// installment's recurring position (its list index minus the signing
// payment), so the second installment falls one month after the start.
func (s *Scheduler) AddInstallment() generic.Installment {
	index := len(s.installments)
	pt := generic.PaymentMonthly
	if index == 0 {
		pt = generic.PaymentOnSigning
	}
	inst := generic.Installment{
		Amount:      s.Unallocated(),
		PaymentType: pt,
		Description: Description(index),
		DueDate:     DueDate(s.Period, pt, index-1, nil),
	}
	s.installments = append(s.installments, inst)
	return inst
}

// RemoveInstallment deletes the installment at index.
func (s *Scheduler) RemoveInstallment(index int) error {
	if index < 0 || index >= len(s.installments) {
		return fmt.Errorf("%w: %d of %d", generic.ErrIndexOutOfRange, index, len(s.installments))
	}
	s.installments = append(s.installments[:index:index], s.installments[index+1:]...)
	return nil
}

// ClearAllInstallments empties the schedule.
func (s *Scheduler) ClearAllInstallments() {
	s.installments = nil
}

// Validate checks the schedule against the final total.
func (s *Scheduler) Validate() error {
	return Validate(s.installments, s.FinalTotal)
}
