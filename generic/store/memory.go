// Package store provides in-memory Catalog and ScheduleStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/billboard-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	rows       []generic.PriceRow
	sizes      []generic.Size
	categories []generic.CustomerCategory
	schedules  map[string]generic.ContractSchedule

	// fetchErr, when set, is returned by every Catalog read.
	fetchErr error
	reads    int
}

func NewMemory() *Memory {
	return &Memory{
		schedules: make(map[string]generic.ContractSchedule),
	}
}

// SetPriceRows replaces the whole price table.
func (m *Memory) SetPriceRows(rows ...generic.PriceRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append([]generic.PriceRow(nil), rows...)
}

// SetSizes replaces the size table.
func (m *Memory) SetSizes(sizes ...generic.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes = append([]generic.Size(nil), sizes...)
}

// SetCustomerCategories replaces the category table.
func (m *Memory) SetCustomerCategories(cats ...generic.CustomerCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append([]generic.CustomerCategory(nil), cats...)
}

// FailWith makes every subsequent Catalog read return err. Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

// Reads returns how many Catalog reads have been served.
func (m *Memory) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads
}

func (m *Memory) PriceRows(_ context.Context) ([]generic.PriceRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return append([]generic.PriceRow(nil), m.rows...), nil
}

func (m *Memory) Sizes(_ context.Context) ([]generic.Size, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return append([]generic.Size(nil), m.sizes...), nil
}

func (m *Memory) CustomerCategories(_ context.Context) ([]generic.CustomerCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return append([]generic.CustomerCategory(nil), m.categories...), nil
}

// =============================================================================
// SCHEDULES
// =============================================================================

func (m *Memory) SaveSchedule(_ context.Context, s generic.ContractSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Installments = append([]generic.Installment(nil), s.Installments...)
	m.schedules[s.ContractID] = s
	return nil
}

func (m *Memory) LoadSchedule(_ context.Context, contractID string) (generic.ContractSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schedules[contractID]
	if !ok {
		return generic.ContractSchedule{}, generic.ErrContractNotFound
	}
	s.Installments = append([]generic.Installment(nil), s.Installments...)
	return s, nil
}

var (
	_ generic.Catalog       = (*Memory)(nil)
	_ generic.ScheduleStore = (*Memory)(nil)
)
