/*
store.go - Persistence interfaces for the price catalog and contract schedules

PURPOSE:
  Defines the boundary between the engine and the backing data store.
  The engine treats the store as an opaque table source: it bulk-reads
  whole tables and never pushes filters down.

KEY INTERFACES:
  Catalog:       Bulk reads of price rows, sizes and customer categories
  ScheduleStore: Write/read of a contract's installment array

FAILURE SEMANTICS:
  Catalog errors are never fatal to pricing. The pricing cache logs them
  and carries on with an empty table, falling through to the built-in
  price list.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - pricing/cache.go: The only Catalog consumer
  - api/handlers.go: Persists schedules via ScheduleStore
*/
package generic

import "context"

// =============================================================================
// CATALOG - Read side of the price tables
// =============================================================================

// Catalog returns whole tables. Implementations must not filter.
type Catalog interface {
	// PriceRows returns every row of the price table.
	PriceRows(ctx context.Context) ([]PriceRow, error)

	// Sizes returns every canonical size.
	Sizes(ctx context.Context) ([]Size, error)

	// CustomerCategories returns every pricing segment.
	CustomerCategories(ctx context.Context) ([]CustomerCategory, error)
}

// =============================================================================
// SCHEDULE STORE - Opaque installment arrays on contract records
// =============================================================================

// ScheduleStore persists installment arrays. The array is stored as-is;
// no consistency is maintained after it is written.
type ScheduleStore interface {
	// SaveSchedule replaces the stored schedule of the contract.
	SaveSchedule(ctx context.Context, s ContractSchedule) error

	// LoadSchedule returns ErrContractNotFound when nothing is stored.
	LoadSchedule(ctx context.Context, contractID string) (ContractSchedule, error)
}
