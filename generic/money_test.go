package generic_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/billboard-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// =============================================================================
// MONEY
// =============================================================================

func TestSplitEvenly_LastPartAbsorbsRemainder(t *testing.T) {
	// GIVEN: 1000 split three ways
	parts := generic.SplitEvenly(dec("1000"), 3)

	// THEN: floored parts, the last one carries the extra cent
	require.Len(t, parts, 3)
	assertDecimal(t, "333.33", parts[0])
	assertDecimal(t, "333.33", parts[1])
	assertDecimal(t, "333.34", parts[2])
}

func TestSplitEvenly_SumsExactly(t *testing.T) {
	totals := []string{"1", "0.05", "999.99", "1000", "12345.67", "100000.01"}
	for _, total := range totals {
		for count := 1; count <= generic.MaxInstallments; count++ {
			parts := generic.SplitEvenly(dec(total), count)
			sum := decimal.Zero
			for _, p := range parts {
				sum = sum.Add(p)
			}
			assert.True(t, dec(total).Equal(sum), "total=%s count=%d sum=%s", total, count, sum)
		}
	}
}

func TestSplitEvenly_ZeroCount(t *testing.T) {
	assert.Nil(t, generic.SplitEvenly(dec("100"), 0))
}

func TestPercentOf_ClampsToRange(t *testing.T) {
	assertDecimal(t, "2500", generic.PercentOf(dec("10000"), dec("25")))
	assertDecimal(t, "10000", generic.PercentOf(dec("10000"), dec("150")))
	assertDecimal(t, "0", generic.PercentOf(dec("10000"), dec("-5")))
	assertDecimal(t, "333.33", generic.PercentOf(dec("1000"), dec("33.333")))
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 1, generic.ClampCount(0))
	assert.Equal(t, 1, generic.ClampCount(-4))
	assert.Equal(t, 6, generic.ClampCount(6))
	assert.Equal(t, 12, generic.ClampCount(20))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, generic.WithinTolerance(dec("999"), dec("1000"), generic.SumTolerance))
	assert.False(t, generic.WithinTolerance(dec("998.99"), dec("1000"), generic.SumTolerance))
	assert.True(t, generic.WithinTolerance(dec("3000.01"), dec("3000"), generic.EqualAmountTolerance))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestSumMismatchError_Unwraps(t *testing.T) {
	var err error = &generic.SumMismatchError{Sum: dec("900"), FinalTotal: dec("1000")}

	assert.True(t, errors.Is(err, generic.ErrSumMismatch))
	assert.True(t, generic.IsClientError(err))
	assert.False(t, generic.IsNotFound(err))

	var mismatch *generic.SumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assertDecimal(t, "-100", mismatch.Difference())
}

func TestFirstPaymentError_Unwraps(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &generic.FirstPaymentError{FirstPayment: dec("2000"), FinalTotal: dec("1000")})
	assert.ErrorIs(t, err, generic.ErrFirstPaymentOutOfRange)
	assert.True(t, generic.IsClientError(err))
}

func TestIsNotFound(t *testing.T) {
	err := fmt.Errorf("%w: c-1", generic.ErrContractNotFound)
	assert.True(t, generic.IsNotFound(err))
	assert.False(t, generic.IsClientError(err))
}

// =============================================================================
// PAYMENT TYPES
// =============================================================================

func TestPaymentType_JSONUsesLabel(t *testing.T) {
	inst := generic.Installment{
		Amount:      dec("3000"),
		PaymentType: generic.PaymentMonthly,
		Description: "الدفعة 2",
		DueDate:     generic.NewDate(2025, time.February, 1),
	}

	b, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"paymentType":"شهري"`)
	assert.Contains(t, string(b), `"dueDate":"2025-02-01"`)

	var back generic.Installment
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, generic.PaymentMonthly, back.PaymentType)
	assert.Equal(t, "2025-02-01", back.DueDate.String())
	assertDecimal(t, "3000", back.Amount)
}

func TestInstallment_JSONKeepsUnknownPaymentType(t *testing.T) {
	// GIVEN: A stored installment with a free-text paymentType
	in := `{"amount":"1000","paymentType":"دفعة مقدمة","description":"x","dueDate":"2025-01-01"}`

	// WHEN: Decoding then encoding it again
	var inst generic.Installment
	require.NoError(t, json.Unmarshal([]byte(in), &inst))
	out, err := json.Marshal(inst)

	// THEN: The text survives byte for byte
	require.NoError(t, err)
	assert.Equal(t, generic.PaymentUnset, inst.PaymentType)
	assert.Equal(t, "دفعة مقدمة", inst.Label)
	assert.JSONEq(t, in, string(out))
}

func TestInstallment_KnownTypeWinsOverLabel(t *testing.T) {
	inst := generic.Installment{PaymentType: generic.PaymentQuarterly, Label: "stale"}

	assert.Equal(t, "ثلاثة أشهر", inst.TypeLabel())

	var back generic.Installment
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"1","paymentType":"شهري"}`), &back))
	assert.Equal(t, generic.PaymentMonthly, back.PaymentType)
	assert.Empty(t, back.Label)
}

func TestParsePaymentType_UnknownLabel(t *testing.T) {
	pt, ok := generic.ParsePaymentType("أسبوعي")
	assert.False(t, ok)
	assert.Equal(t, generic.PaymentUnset, pt)

	pt, ok = generic.ParsePaymentType(" ثلاثة أشهر ")
	assert.True(t, ok)
	assert.Equal(t, generic.PaymentQuarterly, pt)
}

func TestParseMonthBucket(t *testing.T) {
	for _, m := range []int{1, 2, 3, 6, 12} {
		b, ok := generic.ParseMonthBucket(m)
		assert.True(t, ok, "months=%d", m)
		assert.Equal(t, m, int(b))
	}
	for _, m := range []int{0, 4, 5, 7, 24, -1} {
		_, ok := generic.ParseMonthBucket(m)
		assert.False(t, ok, "months=%d", m)
	}
}
