package pricing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
)

// =============================================================================
// QUOTES - Pricing queries by months or days, and whole contracts
// =============================================================================

// Duration is a rental length in either whole months or days.
type Duration struct {
	Months int
	Days   int
}

// Valid reports whether exactly one of Months and Days is positive.
func (d Duration) Valid() bool {
	return (d.Months > 0) != (d.Days > 0)
}

// Query is one pricing request.
type Query struct {
	Size     generic.SizeRef
	Level    string
	Category string
	Duration Duration
}

// Quote prices a query. Months go through the bucket lookup; days are the
// daily rate times the day count, rounded to cents.
func (r *Resolver) Quote(ctx context.Context, q Query) decimal.NullDecimal {
	if !q.Duration.Valid() {
		return decimal.NullDecimal{}
	}
	if q.Duration.Months > 0 {
		return r.MonthlyPrice(ctx, q.Size, q.Level, q.Category, q.Duration.Months)
	}
	daily := r.DailyPrice(ctx, q.Size, q.Level, q.Category)
	if !daily.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(generic.RoundCents(daily.Decimal.Mul(decimal.NewFromInt(int64(q.Duration.Days)))))
}

// QuoteLine is the price of one billboard in a contract quote.
type QuoteLine struct {
	Billboard generic.Billboard
	Price     decimal.NullDecimal
}

// ContractQuote aggregates billboard prices into a contract total.
type ContractQuote struct {
	Lines    []QuoteLine
	Total    decimal.Decimal
	Unpriced []string // billboard ids with no configured price, counted as 0
}

// QuoteContract prices every billboard for the customer category and
// duration and sums the result.
func (r *Resolver) QuoteContract(ctx context.Context, billboards []generic.Billboard, category string, d Duration) ContractQuote {
	quote := ContractQuote{
		Lines: make([]QuoteLine, 0, len(billboards)),
		Total: decimal.Zero,
	}
	for _, b := range billboards {
		price := r.Quote(ctx, Query{
			Size:     b.SizeRef(),
			Level:    b.Level,
			Category: category,
			Duration: d,
		})
		quote.Lines = append(quote.Lines, QuoteLine{Billboard: b, Price: price})
		if !price.Valid {
			quote.Unpriced = append(quote.Unpriced, b.ID)
			continue
		}
		quote.Total = quote.Total.Add(price.Decimal)
	}
	return quote
}

// Levels returns the canonical billboard levels.
func Levels() []string {
	return []string{generic.LevelNormal, generic.LevelPremium, generic.LevelVIP}
}
