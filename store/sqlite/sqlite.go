/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the price catalog and the contract schedule store using
  SQLite. In production, the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  generic.Catalog:       Bulk reads of pricing, sizes and customer_categories
  generic.ScheduleStore: Installment arrays stored on contracts

ROW ORDER:
  The pricing table keeps insertion order through its autoincrement key.
  Reads return rows in that order, since the pricing index keeps the first
  row it sees for a duplicate key.

KEY TABLES:
  pricing:             One row per (size, level, category) with a column
                       per duration; NULL means no price
  sizes:               Canonical size names keyed by id
  customer_categories: Pricing segments
  contracts:           Installment arrays as opaque JSON

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/billboard.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  cache := pricing.NewCache(store, logger, recorder)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
  - pricing/cache.go: Catalog consumer
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ generic.Catalog       = (*Store)(nil)
	_ generic.ScheduleStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Price table, one column per committed duration
	CREATE TABLE IF NOT EXISTS pricing (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		size TEXT NOT NULL DEFAULT '',
		size_id INTEGER,
		billboard_level TEXT NOT NULL,
		customer_category TEXT NOT NULL,
		one_month TEXT,
		two_months TEXT,
		three_months TEXT,
		six_months TEXT,
		full_year TEXT,
		one_day TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_pricing_size_id
		ON pricing(size_id, billboard_level, customer_category);

	-- Canonical sizes
	CREATE TABLE IF NOT EXISTS sizes (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	-- Pricing segments
	CREATE TABLE IF NOT EXISTS customer_categories (
		name TEXT PRIMARY KEY
	);

	-- Contracts carry their installment array as-is
	CREATE TABLE IF NOT EXISTS contracts (
		contract_id TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL,
		final_total TEXT NOT NULL,
		period_start TEXT,
		period_end TEXT,
		installments_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CATALOG (generic.Catalog interface)
// =============================================================================

// PriceRows returns every row of the price table in insertion order.
func (s *Store) PriceRows(ctx context.Context) ([]generic.PriceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT size, size_id, billboard_level, customer_category,
		       one_month, two_months, three_months, six_months, full_year, one_day
		FROM pricing
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing: %w", err)
	}
	defer rows.Close()

	var result []generic.PriceRow
	for rows.Next() {
		row, err := scanPriceRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanPriceRow(rows *sql.Rows) (generic.PriceRow, error) {
	var (
		row    generic.PriceRow
		sizeID sql.NullInt64
		prices [5]decimal.NullDecimal
		daily  decimal.NullDecimal
	)
	err := rows.Scan(&row.SizeName, &sizeID, &row.Level, &row.CustomerCategory,
		&prices[0], &prices[1], &prices[2], &prices[3], &prices[4], &daily)
	if err != nil {
		return generic.PriceRow{}, fmt.Errorf("failed to scan price row: %w", err)
	}

	if sizeID.Valid {
		id := sizeID.Int64
		row.SizeID = &id
	}
	row.MonthlyPrices = make(map[generic.MonthBucket]decimal.Decimal)
	for i, bucket := range generic.MonthBuckets {
		if prices[i].Valid {
			row.MonthlyPrices[bucket] = prices[i].Decimal
		}
	}
	row.DailyPrice = daily
	return row, nil
}

// Sizes returns every canonical size ordered by id.
func (s *Store) Sizes(ctx context.Context) ([]generic.Size, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM sizes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sizes: %w", err)
	}
	defer rows.Close()

	var sizes []generic.Size
	for rows.Next() {
		var sz generic.Size
		if err := rows.Scan(&sz.ID, &sz.Name); err != nil {
			return nil, err
		}
		sizes = append(sizes, sz)
	}
	return sizes, rows.Err()
}

// CustomerCategories returns every pricing segment.
func (s *Store) CustomerCategories(ctx context.Context) ([]generic.CustomerCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM customer_categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer categories: %w", err)
	}
	defer rows.Close()

	var cats []generic.CustomerCategory
	for rows.Next() {
		var c generic.CustomerCategory
		if err := rows.Scan(&c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// =============================================================================
// CATALOG WRITES
// =============================================================================

// ReplacePriceRows swaps the whole price table in one transaction.
func (s *Store) ReplacePriceRows(ctx context.Context, rows []generic.PriceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pricing`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pricing
		(size, size_id, billboard_level, customer_category,
		 one_month, two_months, three_months, six_months, full_year, one_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		var sizeID sql.NullInt64
		if row.SizeID != nil {
			sizeID = sql.NullInt64{Int64: *row.SizeID, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			row.SizeName,
			sizeID,
			row.Level,
			row.CustomerCategory,
			row.MonthlyPrice(generic.Bucket1Month),
			row.MonthlyPrice(generic.Bucket2Months),
			row.MonthlyPrice(generic.Bucket3Months),
			row.MonthlyPrice(generic.Bucket6Months),
			row.MonthlyPrice(generic.Bucket12Months),
			row.DailyPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert price row: %w", err)
		}
	}
	return tx.Commit()
}

// SaveSizes upserts sizes by id.
func (s *Store) SaveSizes(ctx context.Context, sizes []generic.Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sz := range sizes {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO sizes (id, name) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name
		`, sz.ID, sz.Name)
		if err != nil {
			return fmt.Errorf("failed to save size: %w", err)
		}
	}
	return nil
}

// SaveCustomerCategories inserts categories, ignoring existing names.
func (s *Store) SaveCustomerCategories(ctx context.Context, cats []generic.CustomerCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cats {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO customer_categories (name) VALUES (?)`, c.Name)
		if err != nil {
			return fmt.Errorf("failed to save customer category: %w", err)
		}
	}
	return nil
}

// =============================================================================
// SCHEDULE STORE (generic.ScheduleStore interface)
// =============================================================================

// SaveSchedule replaces the contract's installment array.
func (s *Store) SaveSchedule(ctx context.Context, sched generic.ContractSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	installmentsJSON, err := json.Marshal(sched.Installments)
	if err != nil {
		return fmt.Errorf("failed to encode installments: %w", err)
	}
	savedAt := sched.SavedAt
	if savedAt.IsZero() {
		savedAt = generic.Today()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contracts
		(contract_id, schedule_id, final_total, period_start, period_end, installments_json, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(contract_id) DO UPDATE SET
			schedule_id = excluded.schedule_id,
			final_total = excluded.final_total,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			installments_json = excluded.installments_json,
			saved_at = excluded.saved_at
	`,
		sched.ContractID,
		sched.ID,
		sched.FinalTotal.String(),
		nullString(sched.Period.Start.String()),
		nullString(sched.Period.End.String()),
		string(installmentsJSON),
		savedAt.Time.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

// LoadSchedule returns the stored installment array of a contract.
func (s *Store) LoadSchedule(ctx context.Context, contractID string) (generic.ContractSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sched                  generic.ContractSchedule
		finalTotal             string
		periodStart, periodEnd sql.NullString
		installmentsJSON       string
		savedAt                string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT contract_id, schedule_id, final_total, period_start, period_end, installments_json, saved_at
		FROM contracts WHERE contract_id = ?
	`, contractID).Scan(&sched.ContractID, &sched.ID, &finalTotal, &periodStart, &periodEnd, &installmentsJSON, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.ContractSchedule{}, fmt.Errorf("%w: %s", generic.ErrContractNotFound, contractID)
	}
	if err != nil {
		return generic.ContractSchedule{}, fmt.Errorf("failed to load schedule: %w", err)
	}

	if sched.FinalTotal, err = decimal.NewFromString(finalTotal); err != nil {
		return generic.ContractSchedule{}, fmt.Errorf("corrupt final_total %q: %w", finalTotal, err)
	}
	if sched.Period.Start, err = generic.ParseDate(periodStart.String); err != nil {
		return generic.ContractSchedule{}, err
	}
	if sched.Period.End, err = generic.ParseDate(periodEnd.String); err != nil {
		return generic.ContractSchedule{}, err
	}
	if sched.SavedAt, err = generic.ParseDate(savedAt); err != nil {
		return generic.ContractSchedule{}, err
	}
	if err := json.Unmarshal([]byte(installmentsJSON), &sched.Installments); err != nil {
		return generic.ContractSchedule{}, fmt.Errorf("corrupt installments_json: %w", err)
	}
	return sched, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset empties every table. Used by demo scenarios.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"pricing", "sizes", "customer_categories", "contracts"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
