package installments_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/billboard-engine/generic"
	"github.com/warp/billboard-engine/installments"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func year2025() generic.Period {
	return generic.PeriodFromMonths(generic.NewDate(2025, time.January, 1), 12)
}

func dates(list []generic.Installment) []string {
	out := make([]string, len(list))
	for i, inst := range list {
		out[i] = inst.DueDate.String()
	}
	return out
}

type distributionRecorder struct {
	calls []string
}

func (r *distributionRecorder) ObserveDistribution(strategy string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	r.calls = append(r.calls, strategy+":"+outcome)
}

// =============================================================================
// EVEN SPLIT
// =============================================================================

func TestDistributeEvenly(t *testing.T) {
	// GIVEN: A 1000 contract over 2025
	s := installments.NewScheduler(year2025(), dec("1000"), nil, nil)

	// WHEN: Splitting in three
	require.NoError(t, s.DistributeEvenly(3))
	list := s.Installments()

	// THEN: First on signing, the rest monthly, last one absorbs the cent
	require.Len(t, list, 3)
	assertAmount(t, "333.33", list[0].Amount)
	assertAmount(t, "333.33", list[1].Amount)
	assertAmount(t, "333.34", list[2].Amount)

	assert.Equal(t, generic.PaymentOnSigning, list[0].PaymentType)
	assert.Equal(t, generic.PaymentMonthly, list[1].PaymentType)
	assert.Equal(t, generic.PaymentMonthly, list[2].PaymentType)

	assert.Equal(t, []string{"2025-01-01", "2025-02-01", "2025-03-01"}, dates(list))
	assert.Equal(t, "الدفعة الأولى", list[0].Description)
	assert.Equal(t, "الدفعة 2", list[1].Description)
	assert.Equal(t, "الدفعة 3", list[2].Description)

	assert.NoError(t, s.Validate())
}

func TestDistributeEvenly_ClampsCount(t *testing.T) {
	s := installments.NewScheduler(year2025(), dec("1200"), nil, nil)

	require.NoError(t, s.DistributeEvenly(40))
	assert.Len(t, s.Installments(), generic.MaxInstallments)

	require.NoError(t, s.DistributeEvenly(0))
	list := s.Installments()
	require.Len(t, list, 1)
	assertAmount(t, "1200", list[0].Amount)
}

func TestDistributeEvenly_RejectsNonPositiveTotal(t *testing.T) {
	// GIVEN: An existing schedule and a recorder
	rec := &distributionRecorder{}
	s := installments.NewScheduler(year2025(), dec("1000"), nil, rec)
	require.NoError(t, s.DistributeEvenly(2))

	// WHEN: The total drops to zero
	s.FinalTotal = decimal.Zero
	err := s.DistributeEvenly(3)

	// THEN: Rejected, schedule untouched
	assert.ErrorIs(t, err, generic.ErrNonPositiveTotal)
	assert.Len(t, s.Installments(), 2)
	assert.Equal(t, []string{"even:ok", "even:rejected"}, rec.calls)
}

// =============================================================================
// FIRST PAYMENT + INTERVAL
// =============================================================================

func TestDistributeWithInterval_AmountPlan(t *testing.T) {
	// GIVEN: 12000 with 3000 up front and three monthly payments
	s := installments.NewScheduler(year2025(), dec("12000"), nil, nil)
	plan := installments.IntervalPlan{
		FirstPayment: dec("3000"),
		Interval:     installments.IntervalMonth,
		NumPayments:  3,
	}

	// WHEN
	require.NoError(t, s.DistributeWithInterval(plan))
	list := s.Installments()

	// THEN
	require.Len(t, list, 4)
	assertAmount(t, "3000", list[0].Amount)
	assert.Equal(t, generic.PaymentOnSigning, list[0].PaymentType)
	for _, inst := range list[1:] {
		assertAmount(t, "3000", inst.Amount)
		assert.Equal(t, generic.PaymentMonthly, inst.PaymentType)
	}
	assert.Equal(t, []string{"2025-01-01", "2025-02-01", "2025-03-01", "2025-04-01"}, dates(list))
	assert.Equal(t, "الدفعة 4", list[3].Description)
}

func TestDistributeWithInterval_PercentPlanDefaultCount(t *testing.T) {
	// GIVEN: 25% of 10000 then quarterly with no count or end date
	s := installments.NewScheduler(year2025(), dec("10000"), nil, nil)
	plan := installments.IntervalPlan{
		FirstPayment:     dec("25"),
		FirstPaymentKind: installments.FirstPaymentPercent,
		Interval:         installments.IntervalThreeMonths,
	}

	// WHEN
	require.NoError(t, s.DistributeWithInterval(plan))
	list := s.Installments()

	// THEN: Six months of quarterly payments cover the remaining 7500
	require.Len(t, list, 3)
	assertAmount(t, "2500", list[0].Amount)
	assertAmount(t, "3750", list[1].Amount)
	assertAmount(t, "3750", list[2].Amount)
	assert.Equal(t, generic.PaymentQuarterly, list[1].PaymentType)
	assert.Equal(t, []string{"2025-01-01", "2025-04-01", "2025-07-01"}, dates(list))
}

func TestIntervalPlan_CountFromLastPaymentDate(t *testing.T) {
	first := generic.NewDate(2025, time.January, 1)
	last := generic.NewDate(2025, time.December, 1)

	monthly := installments.IntervalPlan{Interval: installments.IntervalMonth, LastPaymentDate: last}
	assert.Equal(t, 11, monthly.RecurringCount(first))

	bimonthly := installments.IntervalPlan{Interval: installments.IntervalTwoMonths, LastPaymentDate: last}
	assert.Equal(t, 5, bimonthly.RecurringCount(first))

	// Explicit count wins and is clamped
	explicit := installments.IntervalPlan{Interval: installments.IntervalMonth, LastPaymentDate: last, NumPayments: 30}
	assert.Equal(t, generic.MaxInstallments, explicit.RecurringCount(first))

	// An end date before the first payment still yields one payment
	early := installments.IntervalPlan{Interval: installments.IntervalFourMonths, LastPaymentDate: first}
	assert.Equal(t, 1, early.RecurringCount(first))
}

func TestDistributeWithInterval_FirstPaymentCoversTotal(t *testing.T) {
	s := installments.NewScheduler(year2025(), dec("5000"), nil, nil)

	require.NoError(t, s.DistributeWithInterval(installments.IntervalPlan{
		FirstPayment: dec("5000"),
		Interval:     installments.IntervalMonth,
		NumPayments:  6,
	}))

	list := s.Installments()
	require.Len(t, list, 1)
	assertAmount(t, "5000", list[0].Amount)
	assert.Equal(t, generic.PaymentOnSigning, list[0].PaymentType)
}

func TestDistributeWithInterval_FirstPaymentAboveTotal(t *testing.T) {
	// GIVEN: A valid even schedule already in place
	s := installments.NewScheduler(year2025(), dec("1000"), nil, nil)
	require.NoError(t, s.DistributeEvenly(2))

	// WHEN: The first payment exceeds the total
	err := s.DistributeWithInterval(installments.IntervalPlan{
		FirstPayment: dec("1500"),
		Interval:     installments.IntervalMonth,
	})

	// THEN: Rejected with the amounts attached, schedule unchanged
	require.ErrorIs(t, err, generic.ErrFirstPaymentOutOfRange)
	var fpErr *generic.FirstPaymentError
	require.ErrorAs(t, err, &fpErr)
	assertAmount(t, "1500", fpErr.FirstPayment)

	list := s.Installments()
	require.Len(t, list, 2)
	assertAmount(t, "500", list[0].Amount)
}

func TestDistributeWithInterval_ZeroFirstPayment(t *testing.T) {
	// GIVEN: No up-front payment and a custom first payment date
	s := installments.NewScheduler(year2025(), dec("1000"), nil, nil)
	plan := installments.IntervalPlan{
		FirstPayment:     decimal.Zero,
		Interval:         installments.IntervalMonth,
		NumPayments:      4,
		FirstPaymentDate: generic.NewDate(2025, time.March, 1),
	}

	// WHEN
	require.NoError(t, s.DistributeWithInterval(plan))
	list := s.Installments()

	// THEN: The recurring series starts on the first payment date
	require.Len(t, list, 4)
	for _, inst := range list {
		assertAmount(t, "250", inst.Amount)
		assert.Equal(t, generic.PaymentMonthly, inst.PaymentType)
	}
	assert.Equal(t, []string{"2025-03-01", "2025-04-01", "2025-05-01", "2025-06-01"}, dates(list))
	assert.Equal(t, "الدفعة الأولى", list[0].Description)
}

func TestParseInterval(t *testing.T) {
	iv, err := installments.ParseInterval("3months")
	require.NoError(t, err)
	assert.Equal(t, installments.IntervalThreeMonths, iv)
	assert.Equal(t, 3, iv.Months())
	assert.Equal(t, generic.PaymentQuarterly, iv.PaymentType())

	_, err = installments.ParseInterval("weekly")
	assert.ErrorIs(t, err, generic.ErrInvalidInterval)

	assert.Equal(t, installments.FirstPaymentPercent, installments.ParseFirstPaymentKind("Percent"))
	assert.Equal(t, installments.FirstPaymentAmount, installments.ParseFirstPaymentKind(""))
}

// =============================================================================
// MANUAL EDITING
// =============================================================================

func TestCreateManualInstallments(t *testing.T) {
	// GIVEN: Four placeholders
	s := installments.NewScheduler(year2025(), dec("1000"), nil, nil)
	require.NoError(t, s.CreateManualInstallments(4))

	// THEN: Zero amounts with the usual labels; not yet valid
	list := s.Installments()
	require.Len(t, list, 4)
	for _, inst := range list {
		assert.True(t, inst.Amount.IsZero())
	}
	assert.Equal(t, generic.PaymentOnSigning, list[0].PaymentType)
	assertAmount(t, "1000", s.Unallocated())

	var mismatch *generic.SumMismatchError
	assert.ErrorAs(t, s.Validate(), &mismatch)
}

func TestAddAndRemoveInstallment(t *testing.T) {
	// GIVEN: Two even installments
	s := installments.NewScheduler(year2025(), dec("1000"), nil, nil)
	require.NoError(t, s.DistributeEvenly(2))

	// WHEN: Removing the second
	require.NoError(t, s.RemoveInstallment(1))
	assertAmount(t, "500", s.Unallocated())

	// AND: Adding one back
	added := s.AddInstallment()

	// THEN: It carries the unallocated remainder as the next monthly payment
	assertAmount(t, "500", added.Amount)
	assert.Equal(t, generic.PaymentMonthly, added.PaymentType)
	assert.Equal(t, "2025-02-01", added.DueDate.String())
	assert.Equal(t, "الدفعة 2", added.Description)
	assert.NoError(t, s.Validate())
	assertAmount(t, "0", s.Unallocated())
}

func TestAddInstallment_EmptyScheduleIsOnSigning(t *testing.T) {
	s := installments.NewScheduler(year2025(), dec("800"), nil, nil)

	added := s.AddInstallment()

	assert.Equal(t, generic.PaymentOnSigning, added.PaymentType)
	assert.Equal(t, "2025-01-01", added.DueDate.String())
	assertAmount(t, "800", added.Amount)
}

func TestRemoveInstallment_OutOfRange(t *testing.T) {
	s := installments.NewScheduler(year2025(), dec("1000"), nil, nil)
	require.NoError(t, s.DistributeEvenly(2))

	assert.ErrorIs(t, s.RemoveInstallment(5), generic.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveInstallment(-1), generic.ErrIndexOutOfRange)
	assert.Len(t, s.Installments(), 2)
}

func TestClearAllInstallments(t *testing.T) {
	s := installments.NewScheduler(year2025(), dec("1000"), nil, nil)
	require.NoError(t, s.DistributeEvenly(2))

	s.ClearAllInstallments()

	assert.Empty(t, s.Installments())
	assert.ErrorIs(t, s.Validate(), generic.ErrEmptySchedule)
}

func TestUnallocated_FloorsAtZero(t *testing.T) {
	s := installments.NewScheduler(year2025(), dec("1000"), nil, nil)
	s.Load([]generic.Installment{{Amount: dec("1200")}})

	assert.True(t, s.Unallocated().IsZero())
}

// =============================================================================
// VALIDATION & DUE DATES
// =============================================================================

func TestValidate_Tolerance(t *testing.T) {
	total := dec("1000")

	assert.NoError(t, installments.Validate([]generic.Installment{{Amount: dec("999.5")}}, total))
	assert.NoError(t, installments.Validate([]generic.Installment{{Amount: dec("600")}, {Amount: dec("401")}}, total))

	err := installments.Validate([]generic.Installment{{Amount: dec("998.9")}}, total)
	var mismatch *generic.SumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assertAmount(t, "998.9", mismatch.Sum)

	assert.ErrorIs(t, installments.Validate(nil, total), generic.ErrEmptySchedule)
}

func TestValidate_RejectsNegativeAmount(t *testing.T) {
	// GIVEN: Amounts that sum to the total but include a negative one
	list := []generic.Installment{{Amount: dec("-500")}, {Amount: dec("1500")}}

	// WHEN
	err := installments.Validate(list, dec("1000"))

	// THEN
	assert.ErrorIs(t, err, generic.ErrNegativeAmount)
	assert.True(t, generic.IsClientError(err))
	assert.NoError(t, installments.Validate([]generic.Installment{{Amount: decimal.Zero}, {Amount: dec("1000")}}, dec("1000")))
}

func TestDueDate(t *testing.T) {
	period := year2025()
	override := generic.NewDate(2025, time.March, 1)

	tests := []struct {
		name     string
		pt       generic.PaymentType
		index    int
		override *generic.Date
		want     string
	}{
		{"on signing", generic.PaymentOnSigning, 0, nil, "2025-01-01"},
		{"monthly third", generic.PaymentMonthly, 2, nil, "2025-04-01"},
		{"bimonthly first", generic.PaymentBimonthly, 0, nil, "2025-03-01"},
		{"quarterly second", generic.PaymentQuarterly, 1, nil, "2025-07-01"},
		{"on installation", generic.PaymentOnInstallation, 0, nil, "2025-01-08"},
		{"contract end", generic.PaymentOnContractEnd, 3, nil, "2025-12-31"},
		{"four monthly uses start", generic.PaymentFourMonthly, 2, nil, "2025-01-01"},
		{"unset uses start", generic.PaymentUnset, 0, nil, "2025-01-01"},
		{"start override", generic.PaymentMonthly, 0, &override, "2025-04-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := installments.DueDate(period, tt.pt, tt.index, tt.override)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDistributeWithInterval_RemainderSplitEvenly(t *testing.T) {
	// GIVEN: 10000 with 1000 up front and three monthly payments
	s := installments.NewScheduler(year2025(), dec("10000"), nil, nil)

	// WHEN
	require.NoError(t, s.DistributeWithInterval(installments.IntervalPlan{
		FirstPayment: dec("1000"),
		Interval:     installments.IntervalMonth,
		NumPayments:  3,
	}))

	// THEN: 9000 over three months after the first payment
	list := s.Installments()
	require.Len(t, list, 4)
	assertAmount(t, "1000", list[0].Amount)
	for _, inst := range list[1:] {
		assertAmount(t, "3000", inst.Amount)
	}
	assert.Equal(t, []string{"2025-01-01", "2025-02-01", "2025-03-01", "2025-04-01"}, dates(list))
	assert.NoError(t, s.Validate())
}
