package pricing

import (
	"strings"

	"github.com/warp/billboard-engine/generic"
)

// =============================================================================
// INDEX - Immutable lookup structure built from one catalog snapshot
// =============================================================================

type idKey struct {
	sizeID   int64
	level    string
	category string
}

type nameKey struct {
	size     string
	level    string
	category string
}

// Index is a read-only view of the price table, sizes and categories.
// A new Index is built on every refresh and swapped in whole.
type Index struct {
	rows       []generic.PriceRow
	byID       map[idKey]generic.PriceRow
	byName     map[nameKey]generic.PriceRow
	sizes      []generic.Size
	sizeIDs    map[string]int64
	sizeNames  map[int64]string
	categories []generic.CustomerCategory

	// Duplicates counts rows dropped because their triple was already indexed.
	Duplicates int
}

// NewIndex builds an index. When two rows share a (size, level, category)
// triple the first one wins.
func NewIndex(rows []generic.PriceRow, sizes []generic.Size, categories []generic.CustomerCategory) *Index {
	ix := &Index{
		rows:       rows,
		byID:       make(map[idKey]generic.PriceRow, len(rows)),
		byName:     make(map[nameKey]generic.PriceRow, len(rows)),
		sizes:      sizes,
		sizeIDs:    make(map[string]int64, len(sizes)*2),
		sizeNames:  make(map[int64]string, len(sizes)),
		categories: categories,
	}

	for _, row := range rows {
		level := NormalizeLevel(row.Level)
		category := NormalizeCategory(row.CustomerCategory)

		if row.SizeID != nil {
			k := idKey{sizeID: *row.SizeID, level: level, category: category}
			if _, exists := ix.byID[k]; exists {
				ix.Duplicates++
				continue
			}
			ix.byID[k] = row
		}
		if key := SizeKey(row.SizeName); key != "" {
			k := nameKey{size: key, level: level, category: category}
			if _, exists := ix.byName[k]; !exists {
				ix.byName[k] = row
			} else if row.SizeID == nil {
				ix.Duplicates++
			}
		}
	}

	for _, s := range sizes {
		lower := strings.ToLower(strings.TrimSpace(s.Name))
		if _, exists := ix.sizeIDs[lower]; !exists {
			ix.sizeIDs[lower] = s.ID
		}
		if key := SizeKey(s.Name); key != lower {
			if _, exists := ix.sizeIDs[key]; !exists {
				ix.sizeIDs[key] = s.ID
			}
		}
		ix.sizeNames[s.ID] = s.Name
	}
	return ix
}

// EmptyIndex is what pricing runs on when nothing could be loaded.
func EmptyIndex() *Index { return NewIndex(nil, nil, nil) }

// ByID returns the row for an exact (size id, level, category) match.
func (ix *Index) ByID(sizeID int64, level, category string) (generic.PriceRow, bool) {
	row, ok := ix.byID[idKey{sizeID: sizeID, level: level, category: category}]
	return row, ok
}

// ByName returns the row for an exact (size key, level, category) match.
func (ix *Index) ByName(sizeKey, level, category string) (generic.PriceRow, bool) {
	row, ok := ix.byName[nameKey{size: sizeKey, level: level, category: category}]
	return row, ok
}

// ResolveSizeID maps a free-text size to a size id: case-insensitive exact
// name first, then the canonical form, then the flipped form.
func (ix *Index) ResolveSizeID(text string) (int64, bool) {
	if id, ok := ix.sizeIDs[strings.ToLower(strings.TrimSpace(text))]; ok {
		return id, true
	}
	if id, ok := ix.sizeIDs[SizeKey(text)]; ok {
		return id, true
	}
	if flipped, ok := FlipSize(text); ok {
		if id, ok := ix.sizeIDs[SizeKey(flipped)]; ok {
			return id, true
		}
	}
	return 0, false
}

// SizeName returns the canonical name of a size id.
func (ix *Index) SizeName(id int64) (string, bool) {
	name, ok := ix.sizeNames[id]
	return name, ok
}

func (ix *Index) Rows() []generic.PriceRow {
	return append([]generic.PriceRow(nil), ix.rows...)
}

func (ix *Index) Sizes() []generic.Size {
	return append([]generic.Size(nil), ix.sizes...)
}

func (ix *Index) CustomerCategories() []generic.CustomerCategory {
	return append([]generic.CustomerCategory(nil), ix.categories...)
}

// HasCategory reports whether the category is in the loaded category table.
func (ix *Index) HasCategory(category string) bool {
	category = NormalizeCategory(category)
	for _, c := range ix.categories {
		if NormalizeCategory(c.Name) == category {
			return true
		}
	}
	return false
}
