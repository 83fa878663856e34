package pricing

import (
	"context"
	"sync/atomic"

	"github.com/warp/billboard-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// CACHE - Lazily loaded, wholesale-refreshed catalog snapshot
// =============================================================================

// Cache holds the current Index. It is loaded on first use and replaced in
// whole on Refresh; there is no per-row invalidation, so callers refresh
// after any catalog mutation.
//
// Readers always see a complete snapshot: Refresh builds a new Index and
// swaps the pointer. Concurrent refreshes may race; the last swap wins.
type Cache struct {
	catalog  generic.Catalog
	logger   *zap.Logger
	recorder Recorder
	current  atomic.Pointer[Index]
}

// RefreshResult reports what one refresh loaded.
type RefreshResult struct {
	Rows       int      `json:"rows"`
	Sizes      int      `json:"sizes"`
	Categories int      `json:"categories"`
	Duplicates int      `json:"duplicates"`
	Failed     []string `json:"failed,omitempty"`
}

// NewCache creates an unloaded cache over catalog. A nil catalog yields an
// always-empty cache.
func NewCache(catalog generic.Catalog, logger *zap.Logger, recorder Recorder) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Cache{catalog: catalog, logger: logger, recorder: recorder}
}

// Initialize loads the catalog if it has never been loaded.
func (c *Cache) Initialize(ctx context.Context) {
	if c.current.Load() != nil {
		return
	}
	c.Refresh(ctx)
}

// Loaded reports whether a snapshot is in place.
func (c *Cache) Loaded() bool { return c.current.Load() != nil }

// Snapshot returns the current index, loading it first if needed.
func (c *Cache) Snapshot(ctx context.Context) *Index {
	c.Initialize(ctx)
	if ix := c.current.Load(); ix != nil {
		return ix
	}
	return EmptyIndex()
}

// Refresh re-fetches every table and replaces the snapshot. A table that
// fails to load is logged and treated as empty; nothing is retried.
func (c *Cache) Refresh(ctx context.Context) RefreshResult {
	var (
		rows   []generic.PriceRow
		sizes  []generic.Size
		cats   []generic.CustomerCategory
		result RefreshResult
	)

	if c.catalog != nil {
		var err error
		if rows, err = c.catalog.PriceRows(ctx); err != nil {
			c.fetchFailed("price_rows", err, &result)
			rows = nil
		}
		if sizes, err = c.catalog.Sizes(ctx); err != nil {
			c.fetchFailed("sizes", err, &result)
			sizes = nil
		}
		if cats, err = c.catalog.CustomerCategories(ctx); err != nil {
			c.fetchFailed("customer_categories", err, &result)
			cats = nil
		}
	}

	ix := NewIndex(rows, sizes, cats)
	c.current.Store(ix)

	result.Rows = len(rows)
	result.Sizes = len(sizes)
	result.Categories = len(cats)
	result.Duplicates = ix.Duplicates
	c.recorder.ObserveRefresh(len(result.Failed) == 0)

	if ix.Duplicates > 0 {
		c.logger.Warn("duplicate price rows ignored", zap.Int("duplicates", ix.Duplicates))
	}
	c.logger.Info("pricing cache refreshed",
		zap.Int("rows", result.Rows),
		zap.Int("sizes", result.Sizes),
		zap.Int("categories", result.Categories),
		zap.Strings("failed", result.Failed),
	)
	return result
}

func (c *Cache) fetchFailed(table string, err error, result *RefreshResult) {
	c.logger.Warn("pricing table fetch failed, using empty table",
		zap.String("table", table),
		zap.Error(err),
	)
	result.Failed = append(result.Failed, table)
}
