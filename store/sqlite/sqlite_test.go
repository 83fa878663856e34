package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/billboard-engine/generic"
	"github.com/warp/billboard-engine/pricing"
	"github.com/warp/billboard-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sizeID(n int64) *int64 { return &n }

func TestPriceRows_RoundTripKeepsNullsAndOrder(t *testing.T) {
	// GIVEN: Two rows, the second with gaps
	store := newStore(t)
	ctx := context.Background()

	rows := []generic.PriceRow{
		{
			SizeID:           sizeID(1),
			SizeName:         "4x12",
			Level:            "عادي",
			CustomerCategory: "شركات",
			MonthlyPrices: map[generic.MonthBucket]decimal.Decimal{
				generic.Bucket1Month:   decimal.NewFromInt(850),
				generic.Bucket12Months: decimal.RequireFromString("6800.50"),
			},
			DailyPrice: decimal.NewNullDecimal(decimal.NewFromInt(30)),
		},
		{
			SizeName:         "6x18",
			Level:            "VIP",
			CustomerCategory: "عادي",
			MonthlyPrices: map[generic.MonthBucket]decimal.Decimal{
				generic.Bucket3Months: decimal.NewFromInt(5000),
			},
		},
	}

	// WHEN
	require.NoError(t, store.ReplacePriceRows(ctx, rows))
	got, err := store.PriceRows(ctx)

	// THEN
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "4x12", got[0].SizeName)
	require.NotNil(t, got[0].SizeID)
	assert.Equal(t, int64(1), *got[0].SizeID)
	assert.True(t, decimal.RequireFromString("6800.5").Equal(got[0].MonthlyPrice(generic.Bucket12Months).Decimal))
	assert.False(t, got[0].MonthlyPrice(generic.Bucket6Months).Valid)
	assert.True(t, got[0].DailyPrice.Valid)

	assert.Equal(t, "6x18", got[1].SizeName)
	assert.Nil(t, got[1].SizeID)
	assert.False(t, got[1].MonthlyPrice(generic.Bucket1Month).Valid)
	assert.True(t, decimal.NewFromInt(5000).Equal(got[1].MonthlyPrice(generic.Bucket3Months).Decimal))
	assert.False(t, got[1].DailyPrice.Valid)
}

func TestReplacePriceRows_ReplacesWholeTable(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplacePriceRows(ctx, []generic.PriceRow{{SizeName: "4x12", Level: "عادي", CustomerCategory: "عادي"}}))
	require.NoError(t, store.ReplacePriceRows(ctx, []generic.PriceRow{{SizeName: "8x24", Level: "عادي", CustomerCategory: "عادي"}}))

	got, err := store.PriceRows(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "8x24", got[0].SizeName)
}

func TestSizesAndCategories(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSizes(ctx, []generic.Size{{ID: 2, Name: "6x18"}, {ID: 1, Name: "4X12"}}))
	require.NoError(t, store.SaveSizes(ctx, []generic.Size{{ID: 1, Name: "4x12"}}))
	require.NoError(t, store.SaveCustomerCategories(ctx, []generic.CustomerCategory{{Name: "عادي"}, {Name: "شركات"}, {Name: "عادي"}}))

	sizes, err := store.Sizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []generic.Size{{ID: 1, Name: "4x12"}, {ID: 2, Name: "6x18"}}, sizes)

	cats, err := store.CustomerCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []generic.CustomerCategory{{Name: "عادي"}, {Name: "شركات"}}, cats)
}

func TestSchedule_SaveAndLoad(t *testing.T) {
	// GIVEN: A two-installment schedule
	store := newStore(t)
	ctx := context.Background()
	start := generic.NewDate(2025, time.January, 1)

	sched := generic.ContractSchedule{
		ID:         "s-1",
		ContractID: "c-1",
		FinalTotal: decimal.NewFromInt(1000),
		Period:     generic.PeriodFromMonths(start, 6),
		Installments: []generic.Installment{
			{Amount: decimal.NewFromInt(400), PaymentType: generic.PaymentOnSigning, Description: "الدفعة الأولى", DueDate: start},
			{Amount: decimal.NewFromInt(600), PaymentType: generic.PaymentMonthly, Description: "الدفعة 2", DueDate: start.AddMonths(1)},
		},
		SavedAt: generic.NewDate(2024, time.December, 20),
	}

	// WHEN
	require.NoError(t, store.SaveSchedule(ctx, sched))
	got, err := store.LoadSchedule(ctx, "c-1")

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.ID)
	assert.True(t, sched.FinalTotal.Equal(got.FinalTotal))
	assert.Equal(t, "2025-01-01", got.Period.Start.String())
	assert.Equal(t, "2025-06-30", got.Period.End.String())
	assert.Equal(t, "2024-12-20", got.SavedAt.String())
	require.Len(t, got.Installments, 2)
	assert.Equal(t, generic.PaymentMonthly, got.Installments[1].PaymentType)
	assert.Equal(t, "2025-02-01", got.Installments[1].DueDate.String())
	assert.True(t, decimal.NewFromInt(600).Equal(got.Installments[1].Amount))
}

func TestSchedule_SaveOverwrites(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	base := generic.ContractSchedule{ID: "s-1", ContractID: "c-1", FinalTotal: decimal.NewFromInt(100),
		Installments: []generic.Installment{{Amount: decimal.NewFromInt(100)}}}
	require.NoError(t, store.SaveSchedule(ctx, base))

	base.ID = "s-2"
	base.Installments = []generic.Installment{{Amount: decimal.NewFromInt(50)}, {Amount: decimal.NewFromInt(50)}}
	require.NoError(t, store.SaveSchedule(ctx, base))

	got, err := store.LoadSchedule(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "s-2", got.ID)
	assert.Len(t, got.Installments, 2)
	assert.True(t, got.Period.Start.IsZero())
}

func TestSchedule_KeepsCustomPaymentTypeLabel(t *testing.T) {
	// GIVEN: A hand-entered installment whose paymentType is not a known cadence
	store := newStore(t)
	ctx := context.Background()
	sched := generic.ContractSchedule{
		ID:         "s-1",
		ContractID: "c-1",
		FinalTotal: decimal.NewFromInt(1000),
		Installments: []generic.Installment{
			{Amount: decimal.NewFromInt(1000), Label: "دفعة مقدمة", Description: "x", DueDate: generic.NewDate(2025, time.January, 1)},
		},
	}

	// WHEN
	require.NoError(t, store.SaveSchedule(ctx, sched))
	got, err := store.LoadSchedule(ctx, "c-1")

	// THEN: The label comes back unchanged
	require.NoError(t, err)
	require.Len(t, got.Installments, 1)
	assert.Equal(t, generic.PaymentUnset, got.Installments[0].PaymentType)
	assert.Equal(t, "دفعة مقدمة", got.Installments[0].TypeLabel())
}

func TestLoadSchedule_NotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.LoadSchedule(context.Background(), "missing")

	assert.ErrorIs(t, err, generic.ErrContractNotFound)
	assert.True(t, generic.IsNotFound(err))
}

func TestReset(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.ReplacePriceRows(ctx, []generic.PriceRow{{SizeName: "4x12", Level: "عادي", CustomerCategory: "عادي"}}))
	require.NoError(t, store.SaveSizes(ctx, []generic.Size{{ID: 1, Name: "4x12"}}))

	require.NoError(t, store.Reset(ctx))

	rows, err := store.PriceRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
	sizes, err := store.Sizes(ctx)
	require.NoError(t, err)
	assert.Empty(t, sizes)
}

func TestResolverOverSQLite(t *testing.T) {
	// GIVEN: A row stored by name only, with a size table entry
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.ReplacePriceRows(ctx, []generic.PriceRow{{
		SizeName:         "12x4",
		Level:            "ممتاز",
		CustomerCategory: "المدينة",
		MonthlyPrices:    map[generic.MonthBucket]decimal.Decimal{generic.Bucket2Months: decimal.NewFromInt(1900)},
	}}))

	resolver := pricing.NewResolver(pricing.NewCache(store, nil, nil))

	// WHEN/THEN: The stored name is canonicalized like any other input
	price := resolver.MonthlyPrice(ctx, generic.SizeRefFromText("4 x 12"), "premium", "المدينة", 2)
	require.True(t, price.Valid)
	assert.True(t, decimal.NewFromInt(1900).Equal(price.Decimal))

	assert.False(t, resolver.MonthlyPrice(ctx, generic.SizeRefFromText("4x12"), "ممتاز", "المدينة", 1).Valid)
}
