/*
scenarios.go - Demo catalog loaders for testing and demonstrations

PURPOSE:

	Provides pre-built catalogs that populate the database with realistic
	price tables for testing and demos. Each scenario seeds sizes, customer
	categories and price rows that exercise a specific lookup path, and
	some also store a sample contract schedule.

AVAILABLE SCENARIOS:

	standard-catalog: Full table keyed by size id, plus a sample contract
	legacy-names:     Rows keyed by size text only, some written flipped
	fallback-only:    Sizes and categories but no price rows

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Build price rows in the backend JSON shape
 3. Parse them through the catalog factory
 4. Store sizes, categories and rows
 5. Refresh the pricing cache

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "standard-catalog"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase handler
  - factory/catalog.go: Price row JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/factory"
	"github.com/warp/billboard-engine/generic"
	"github.com/warp/billboard-engine/installments"
	"github.com/warp/billboard-engine/pricing"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-catalog",
		Name:        "Standard Catalog",
		Description: "Every size priced by id for all levels and categories, with a sample contract",
	},
	{
		ID:          "legacy-names",
		Name:        "Legacy Size Names",
		Description: "Rows without size ids, some sizes written height-first",
	},
	{
		ID:          "fallback-only",
		Name:        "Fallback Only",
		Description: "No price rows; every price comes from the built-in list",
	},
}

var demoSizes = []generic.Size{
	{ID: 1, Name: "4x12"},
	{ID: 2, Name: "6x18"},
	{ID: 3, Name: "8x24"},
	{ID: 4, Name: "3x9"},
}

var demoCategories = []generic.CustomerCategory{
	{Name: generic.CategoryNormal},
	{Name: generic.CategoryCity},
	{Name: generic.CategoryMarketer},
	{Name: generic.CategoryCompanies},
}

// Category discounts applied to the one-month base price.
var categoryFactors = map[string]decimal.Decimal{
	generic.CategoryNormal:    decimal.NewFromInt(1),
	generic.CategoryCity:      decimal.RequireFromString("0.9"),
	generic.CategoryMarketer:  decimal.RequireFromString("0.85"),
	generic.CategoryCompanies: decimal.RequireFromString("1.1"),
}

var levelFactors = map[string]decimal.Decimal{
	generic.LevelNormal:  decimal.NewFromInt(1),
	generic.LevelPremium: decimal.RequireFromString("1.5"),
	generic.LevelVIP:     decimal.NewFromInt(2),
}

var sizeBase = map[int64]int64{1: 800, 2: 1400, 3: 2200, 4: 500}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "standard-catalog":
		err = h.loadStandardCatalogScenario(ctx)
	case "legacy-names":
		err = h.loadLegacyNamesScenario(ctx)
	case "fallback-only":
		err = h.loadFallbackOnlyScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	result := h.refresh(r)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": req.ScenarioID,
		"catalog":  result,
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadStandardCatalogScenario(ctx context.Context) error {
	var rows []factory.PriceRowJSON
	for _, size := range demoSizes {
		id := size.ID
		for _, level := range pricing.Levels() {
			for _, cat := range demoCategories {
				row := demoRow(sizeBase[id], level, cat.Name)
				row.SizeID = &id
				row.Size = size.Name
				rows = append(rows, row)
			}
		}
	}
	if err := h.seedCatalog(ctx, rows); err != nil {
		return err
	}

	// Sample contract: 12 months at 4x12, first payment 25% then quarterly.
	period := generic.PeriodFromMonths(generic.Today(), 12)
	total := decimal.NewFromInt(sizeBase[1]).Mul(pricing.DurationMultipliers[generic.Bucket12Months])
	s := installments.NewScheduler(period, total, h.logger, h.recorder)
	err := s.DistributeWithInterval(installments.IntervalPlan{
		FirstPayment:     decimal.NewFromInt(25),
		FirstPaymentKind: installments.FirstPaymentPercent,
		Interval:         installments.IntervalThreeMonths,
	})
	if err != nil {
		return err
	}
	return h.Store.SaveSchedule(ctx, generic.ContractSchedule{
		ID:           uuid.New().String(),
		ContractID:   "demo-" + uuid.New().String()[:8],
		FinalTotal:   total,
		Period:       period,
		Installments: s.Installments(),
		SavedAt:      generic.Today(),
	})
}

func (h *Handler) loadLegacyNamesScenario(ctx context.Context) error {
	// No size ids; sizes typed by hand, some height-first.
	names := map[int64]string{1: "12x4", 2: "6 x 18", 3: "24*8", 4: "3x9"}

	var rows []factory.PriceRowJSON
	for _, size := range demoSizes {
		for _, cat := range demoCategories {
			row := demoRow(sizeBase[size.ID], generic.LevelNormal, cat.Name)
			row.Size = names[size.ID]
			rows = append(rows, row)
		}
	}
	return h.seedCatalog(ctx, rows)
}

func (h *Handler) loadFallbackOnlyScenario(ctx context.Context) error {
	return h.seedCatalog(ctx, nil)
}

// seedCatalog round-trips rows through the backend JSON shape so demo data
// passes the same validation as imported data.
func (h *Handler) seedCatalog(ctx context.Context, rows []factory.PriceRowJSON) error {
	if err := h.Store.SaveSizes(ctx, demoSizes); err != nil {
		return err
	}
	if err := h.Store.SaveCustomerCategories(ctx, demoCategories); err != nil {
		return err
	}
	if rows == nil {
		rows = []factory.PriceRowJSON{}
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	parsed, err := h.CatalogFactory.ParsePriceRows(body)
	if err != nil {
		return err
	}
	return h.Store.ReplacePriceRows(ctx, parsed)
}

// demoRow prices every bucket from a one-month base. The 6-month column is
// left empty so demos show a row-level miss.
func demoRow(base int64, level, category string) factory.PriceRowJSON {
	month := decimal.NewFromInt(base).Mul(levelFactors[level]).Mul(categoryFactors[category]).Round(0)
	at := func(b generic.MonthBucket) decimal.NullDecimal {
		return decimal.NewNullDecimal(month.Mul(pricing.DurationMultipliers[b]).Round(0))
	}
	return factory.PriceRowJSON{
		BillboardLevel:   level,
		CustomerCategory: category,
		OneMonth:         at(generic.Bucket1Month),
		TwoMonths:        at(generic.Bucket2Months),
		ThreeMonths:      at(generic.Bucket3Months),
		FullYear:         at(generic.Bucket12Months),
	}
}
