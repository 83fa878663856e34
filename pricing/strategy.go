package pricing

import "github.com/warp/billboard-engine/generic"

// =============================================================================
// LOOKUP - A canonicalized pricing query
// =============================================================================

// Lookup is a query after canonicalization. Strategies only see this form.
type Lookup struct {
	SizeID   *int64
	SizeText string // raw text, for size-table resolution
	SizeKey  string // canonical + normalized text, for name matching
	Level    string
	Category string
}

// NewLookup canonicalizes a size reference, level and customer category.
func NewLookup(ref generic.SizeRef, level, category string) Lookup {
	l := Lookup{
		SizeID:   ref.ID,
		SizeText: ref.Text,
		Level:    NormalizeLevel(level),
		Category: NormalizeCategory(category),
	}
	if ref.ID == nil && ref.Text != "" {
		parsed := ParseSizeRef(ref.Text)
		l.SizeID = parsed.ID
	}
	if ref.Text != "" {
		l.SizeKey = SizeKey(ref.Text)
	}
	return l
}

// =============================================================================
// ROW STRATEGIES - Ordered tiers for finding a price row
// =============================================================================

// Resolution tiers, in the order the default chain tries them.
const (
	TierSizeID         = "size_id"
	TierSizeName       = "size_name"
	TierFlippedName    = "flipped_name"
	TierResolvedSizeID = "resolved_size_id"
	TierStaticFallback = "static_fallback"
	TierMiss           = "miss"
)

// RowStrategy finds a price row for a lookup. The first strategy that finds
// a row decides the price, even if that row lacks the requested duration.
type RowStrategy interface {
	Name() string
	Find(ix *Index, l Lookup) (generic.PriceRow, bool)
}

// DefaultStrategies returns the id -> name -> flipped name -> resolved id chain.
func DefaultStrategies() []RowStrategy {
	return []RowStrategy{
		SizeIDStrategy{},
		SizeNameStrategy{},
		FlippedNameStrategy{},
		ResolvedSizeIDStrategy{},
	}
}

// SizeIDStrategy matches on the size foreign key.
type SizeIDStrategy struct{}

func (SizeIDStrategy) Name() string { return TierSizeID }

func (SizeIDStrategy) Find(ix *Index, l Lookup) (generic.PriceRow, bool) {
	if l.SizeID == nil {
		return generic.PriceRow{}, false
	}
	return ix.ByID(*l.SizeID, l.Level, l.Category)
}

// SizeNameStrategy matches on the normalized size text.
type SizeNameStrategy struct{}

func (SizeNameStrategy) Name() string { return TierSizeName }

func (SizeNameStrategy) Find(ix *Index, l Lookup) (generic.PriceRow, bool) {
	if l.SizeKey == "" {
		return generic.PriceRow{}, false
	}
	return ix.ByName(l.SizeKey, l.Level, l.Category)
}

// FlippedNameStrategy retries the name match with width and height swapped,
// for billboards whose dimensions were recorded in reverse.
type FlippedNameStrategy struct{}

func (FlippedNameStrategy) Name() string { return TierFlippedName }

func (FlippedNameStrategy) Find(ix *Index, l Lookup) (generic.PriceRow, bool) {
	flipped, ok := FlipSize(l.SizeKey)
	if !ok {
		return generic.PriceRow{}, false
	}
	return ix.ByName(SizeKey(flipped), l.Level, l.Category)
}

// ResolvedSizeIDStrategy resolves the text to a size id through the size
// table and retries the id match.
type ResolvedSizeIDStrategy struct{}

func (ResolvedSizeIDStrategy) Name() string { return TierResolvedSizeID }

func (ResolvedSizeIDStrategy) Find(ix *Index, l Lookup) (generic.PriceRow, bool) {
	if l.SizeText == "" {
		return generic.PriceRow{}, false
	}
	id, ok := ix.ResolveSizeID(l.SizeText)
	if !ok {
		return generic.PriceRow{}, false
	}
	return ix.ByID(id, l.Level, l.Category)
}
