/*
Package pricing resolves billboard rental prices from the price table.

PURPOSE:
  Maps (size, level, customer category, duration) to a single price.
  The price table is incomplete and inconsistently keyed in practice, so
  resolution walks an ordered list of lookup tiers before giving up.

RESOLUTION ORDER (first hit wins):
  1. Size id + level + category
  2. Normalized size name + level + category
  3. Flipped size name ("4x12" -> "12x4")
  4. Size name resolved to an id through the size table, then id match
  5. Built-in static price list x duration multiplier
  6. null

  A row found at tiers 1-4 decides the answer. If that row has no price for
  the requested duration the result is null; the static list is consulted
  only when no row matches at all.

NEVER FAILS:
  Resolution does not return errors. Missing configuration is an invalid
  decimal.NullDecimal and the caller decides whether that means 0 or
  "price not set".

DAILY PRICES:
  An explicit daily price on the matched row wins. Otherwise the one-month
  price / 30, rounded to cents.

SEE ALSO:
  - strategy.go: The row strategies
  - fallback.go: Static price list
  - cache.go: Catalog snapshot lifecycle
*/
package pricing

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
	"go.uber.org/zap"
)

// DaysPerMonth derives a daily rate from a monthly one.
var DaysPerMonth = decimal.NewFromInt(30)

const (
	kindMonthly = "monthly"
	kindDaily   = "daily"
)

// Resolver prices queries against a Cache.
type Resolver struct {
	cache      *Cache
	strategies []RowStrategy
	fallback   *StaticTable
	logger     *zap.Logger
	recorder   Recorder
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrategies replaces the row strategy chain.
func WithStrategies(s ...RowStrategy) Option {
	return func(r *Resolver) { r.strategies = s }
}

// WithStaticTable replaces the built-in price list. nil disables it.
func WithStaticTable(t *StaticTable) Option {
	return func(r *Resolver) { r.fallback = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewResolver creates a resolver with the default strategy chain and the
// built-in static price list.
func NewResolver(cache *Cache, opts ...Option) *Resolver {
	r := &Resolver{
		cache:      cache,
		strategies: DefaultStrategies(),
		fallback:   DefaultStaticTable(),
		logger:     zap.NewNop(),
		recorder:   NopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the snapshot holder the resolver reads from.
func (r *Resolver) Cache() *Cache { return r.cache }

// MonthlyPrice resolves the price for a committed duration of months.
// Durations other than 1, 2, 3, 6 and 12 months yield null.
func (r *Resolver) MonthlyPrice(ctx context.Context, size generic.SizeRef, level, category string, months int) decimal.NullDecimal {
	price, tier := r.monthlyPrice(ctx, size, level, category, months)
	r.recorder.ObserveResolution(kindMonthly, tier)
	return price
}

// DailyPrice resolves the per-day rate. Without an explicit daily column the
// rate is the one-month price over 30 days, recorded under the monthly tier
// that answered it.
func (r *Resolver) DailyPrice(ctx context.Context, size generic.SizeRef, level, category string) decimal.NullDecimal {
	ix := r.cache.Snapshot(ctx)
	l := NewLookup(size, level, category)

	if row, tier, found := r.findRow(ix, l); found && row.DailyPrice.Valid {
		r.recorder.ObserveResolution(kindDaily, tier)
		return row.DailyPrice
	}

	monthly, tier := r.monthlyPrice(ctx, size, level, category, 1)
	r.recorder.ObserveResolution(kindDaily, tier)
	if !monthly.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(generic.RoundCents(monthly.Decimal.Div(DaysPerMonth)))
}

func (r *Resolver) monthlyPrice(ctx context.Context, size generic.SizeRef, level, category string, months int) (decimal.NullDecimal, string) {
	bucket, ok := generic.ParseMonthBucket(months)
	if !ok {
		return decimal.NullDecimal{}, TierMiss
	}

	ix := r.cache.Snapshot(ctx)
	l := NewLookup(size, level, category)

	if row, tier, found := r.findRow(ix, l); found {
		return row.MonthlyPrice(bucket), tier
	}

	if p := r.staticPrice(ix, l, bucket); p.Valid {
		return p, TierStaticFallback
	}

	r.logger.Debug("no price configured",
		zap.String("size", size.String()),
		zap.String("level", l.Level),
		zap.String("category", l.Category),
		zap.Int("months", months),
	)
	return decimal.NullDecimal{}, TierMiss
}

func (r *Resolver) findRow(ix *Index, l Lookup) (generic.PriceRow, string, bool) {
	for _, s := range r.strategies {
		if row, ok := s.Find(ix, l); ok {
			return row, s.Name(), true
		}
	}
	return generic.PriceRow{}, "", false
}

func (r *Resolver) staticPrice(ix *Index, l Lookup, bucket generic.MonthBucket) decimal.NullDecimal {
	sizeKey := l.SizeKey
	if l.SizeID != nil {
		if name, ok := ix.SizeName(*l.SizeID); ok && (sizeKey == "" || l.SizeText == l.sizeIDText()) {
			sizeKey = SizeKey(name)
		}
	}
	if sizeKey == "" {
		return decimal.NullDecimal{}
	}
	return r.fallback.Price(sizeKey, l.Level, l.Category, bucket)
}

func (l Lookup) sizeIDText() string {
	if l.SizeID == nil {
		return ""
	}
	return strconv.FormatInt(*l.SizeID, 10)
}
