package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
)

// =============================================================================
// STATIC FALLBACK - Built-in price list used on a full table miss
// =============================================================================

// DurationMultipliers scale the one-month base price. They are a volume
// discount, not a linear month count.
var DurationMultipliers = map[generic.MonthBucket]decimal.Decimal{
	generic.Bucket1Month:   decimal.NewFromInt(1),
	generic.Bucket2Months:  decimal.RequireFromString("1.8"),
	generic.Bucket3Months:  decimal.RequireFromString("2.5"),
	generic.Bucket6Months:  decimal.RequireFromString("4.5"),
	generic.Bucket12Months: decimal.NewFromInt(8),
}

// basePrices is size -> level -> customer category -> one-month price.
var basePrices = map[string]map[string]map[string]int64{
	"4x12": {
		generic.LevelNormal:  {generic.CategoryNormal: 800, generic.CategoryCity: 750, generic.CategoryMarketer: 700, generic.CategoryCompanies: 850},
		generic.LevelPremium: {generic.CategoryNormal: 1000, generic.CategoryCity: 950, generic.CategoryMarketer: 900, generic.CategoryCompanies: 1050},
		generic.LevelVIP:     {generic.CategoryNormal: 1200, generic.CategoryCity: 1150, generic.CategoryMarketer: 1100, generic.CategoryCompanies: 1250},
	},
	"6x18": {
		generic.LevelNormal:  {generic.CategoryNormal: 1500, generic.CategoryCity: 1425, generic.CategoryMarketer: 1350, generic.CategoryCompanies: 1600},
		generic.LevelPremium: {generic.CategoryNormal: 1800, generic.CategoryCity: 1700, generic.CategoryMarketer: 1620, generic.CategoryCompanies: 1900},
		generic.LevelVIP:     {generic.CategoryNormal: 2200, generic.CategoryCity: 2100, generic.CategoryMarketer: 2000, generic.CategoryCompanies: 2300},
	},
	"8x24": {
		generic.LevelNormal:  {generic.CategoryNormal: 2500, generic.CategoryCity: 2400, generic.CategoryMarketer: 2250, generic.CategoryCompanies: 2650},
		generic.LevelPremium: {generic.CategoryNormal: 3000, generic.CategoryCity: 2850, generic.CategoryMarketer: 2700, generic.CategoryCompanies: 3150},
		generic.LevelVIP:     {generic.CategoryNormal: 3500, generic.CategoryCity: 3350, generic.CategoryMarketer: 3150, generic.CategoryCompanies: 3700},
	},
}

// StaticTable is a fixed price list keyed by canonical size, level and
// customer category.
type StaticTable struct {
	base        map[string]map[string]map[string]decimal.Decimal
	multipliers map[generic.MonthBucket]decimal.Decimal
}

// DefaultStaticTable returns the built-in list of three sizes x three
// levels x four customer categories.
func DefaultStaticTable() *StaticTable {
	t := &StaticTable{
		base:        make(map[string]map[string]map[string]decimal.Decimal),
		multipliers: DurationMultipliers,
	}
	for size, levels := range basePrices {
		for level, cats := range levels {
			for cat, price := range cats {
				t.Set(size, level, cat, decimal.NewFromInt(price))
			}
		}
	}
	return t
}

// Set adds or replaces a base (one-month) price.
func (t *StaticTable) Set(size, level, category string, base decimal.Decimal) {
	key := SizeKey(size)
	if t.base[key] == nil {
		t.base[key] = make(map[string]map[string]decimal.Decimal)
	}
	level = NormalizeLevel(level)
	if t.base[key][level] == nil {
		t.base[key][level] = make(map[string]decimal.Decimal)
	}
	t.base[key][level][NormalizeCategory(category)] = base
}

// Price returns base x multiplier for the bucket, or null if the entry or
// the bucket is unknown.
func (t *StaticTable) Price(sizeKey, level, category string, bucket generic.MonthBucket) decimal.NullDecimal {
	if t == nil {
		return decimal.NullDecimal{}
	}
	mult, ok := t.multipliers[bucket]
	if !ok {
		return decimal.NullDecimal{}
	}
	base, ok := t.base[SizeKey(sizeKey)][level][category]
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(base.Mul(mult))
}
