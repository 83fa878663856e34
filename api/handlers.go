/*
handlers.go - HTTP API handlers for billboard pricing and installments

PURPOSE:
  Exposes the pricing resolver and the installment scheduler via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Pricing:
    GET    /api/pricing/monthly          Monthly-bucket price
    GET    /api/pricing/daily            Daily price
    POST   /api/pricing/quote            Price by months or days
    POST   /api/pricing/contract-quote   Price a set of billboards
    POST   /api/pricing/refresh          Reload the pricing cache
    GET    /api/pricing/sizes            Cached sizes
    GET    /api/pricing/categories       Cached customer categories
    GET    /api/pricing/levels           Canonical levels

  Catalog:
    POST   /api/catalog/rows             Replace the price table
    POST   /api/catalog/sizes            Upsert sizes
    POST   /api/catalog/categories       Add customer categories

  Installments:
    POST   /api/installments/even        Even split
    POST   /api/installments/interval    First payment + recurring
    POST   /api/installments/manual      Zero-amount placeholders
    POST   /api/installments/validate    Sum check
    POST   /api/installments/summary     Grouping and clause text

  Contracts:
    PUT    /api/contracts/{id}/installments  Validate and store
    GET    /api/contracts/{id}/installments  Stored schedule with text

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - CatalogFactory: Backend JSON to price rows
  - Resolver: Pricing over the cached catalog

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Contract not found
  - 500: Internal errors

  A price that cannot be resolved is not an error: it is 200 with a null
  price.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo catalog loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/billboard-engine/factory"
	"github.com/warp/billboard-engine/generic"
	"github.com/warp/billboard-engine/installments"
	"github.com/warp/billboard-engine/pricing"
	"github.com/warp/billboard-engine/store/sqlite"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; a full price table fits comfortably.
const maxBodyBytes = 4 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store          *sqlite.Store
	CatalogFactory *factory.CatalogFactory
	Resolver       *pricing.Resolver

	// Refresher, when set, records manual refreshes alongside scheduled ones.
	Refresher *RefreshScheduler

	// Currency is appended to amounts in summary and clause text.
	Currency string

	logger   *zap.Logger
	recorder installments.Recorder

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and resolver.
func NewHandler(store *sqlite.Store, resolver *pricing.Resolver, logger *zap.Logger, recorder installments.Recorder) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:          store,
		CatalogFactory: factory.NewCatalogFactory(),
		Resolver:       resolver,
		Currency:       "د.ل",
		logger:         logger,
		recorder:       recorder,
	}
}

// =============================================================================
// PRICING HANDLERS
// =============================================================================

// GetMonthlyPrice resolves the price for a committed number of months.
func (h *Handler) GetMonthlyPrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	months, err := strconv.Atoi(q.Get("months"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "months must be an integer", err)
		return
	}

	size := q.Get("size")
	price := h.Resolver.MonthlyPrice(r.Context(), pricing.ParseSizeRef(size), q.Get("level"), q.Get("category"), months)
	writeJSON(w, http.StatusOK, PriceResponse{
		Size:     size,
		Level:    q.Get("level"),
		Category: q.Get("category"),
		Months:   months,
		Price:    price,
	})
}

// GetDailyPrice resolves the price of one day.
func (h *Handler) GetDailyPrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	size := q.Get("size")
	price := h.Resolver.DailyPrice(r.Context(), pricing.ParseSizeRef(size), q.Get("level"), q.Get("category"))
	writeJSON(w, http.StatusOK, PriceResponse{
		Size:     size,
		Level:    q.Get("level"),
		Category: q.Get("category"),
		Days:     1,
		Price:    price,
	})
}

// Quote prices one size by months or by days.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d := pricing.Duration{Months: req.Months, Days: req.Days}
	if !d.Valid() {
		writeError(w, http.StatusBadRequest, "Exactly one of months and days must be positive", nil)
		return
	}

	price := h.Resolver.Quote(r.Context(), pricing.Query{
		Size:     pricing.ParseSizeRef(req.Size),
		Level:    req.Level,
		Category: req.Category,
		Duration: d,
	})
	writeJSON(w, http.StatusOK, PriceResponse{
		Size:     req.Size,
		Level:    req.Level,
		Category: req.Category,
		Months:   req.Months,
		Days:     req.Days,
		Price:    price,
	})
}

// ContractQuote normalizes raw billboard records and prices them together.
func (h *Handler) ContractQuote(w http.ResponseWriter, r *http.Request) {
	var req ContractQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d := pricing.Duration{Months: req.Months, Days: req.Days}
	if !d.Valid() {
		writeError(w, http.StatusBadRequest, "Exactly one of months and days must be positive", nil)
		return
	}

	billboards := make([]generic.Billboard, len(req.Billboards))
	for i, raw := range req.Billboards {
		billboards[i] = factory.NormalizeBillboard(raw)
	}

	quote := h.Resolver.QuoteContract(r.Context(), billboards, req.Category, d)
	writeJSON(w, http.StatusOK, toContractQuoteResponse(quote))
}

// RefreshPricing reloads the pricing cache from the store.
func (h *Handler) RefreshPricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.refresh(r))
}

func (h *Handler) refresh(r *http.Request) pricing.RefreshResult {
	if h.Refresher != nil {
		return h.Refresher.RunNow(r.Context())
	}
	return h.Resolver.Cache().Refresh(r.Context())
}

// ListSizes returns the cached sizes.
func (h *Handler) ListSizes(w http.ResponseWriter, r *http.Request) {
	sizes := h.Resolver.Cache().Snapshot(r.Context()).Sizes()
	dtos := make([]SizeDTO, len(sizes))
	for i, s := range sizes {
		dtos[i] = SizeDTO{ID: s.ID, Name: s.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListCategories returns the cached customer category names.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.Resolver.Cache().Snapshot(r.Context()).CustomerCategories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	writeJSON(w, http.StatusOK, names)
}

// ListLevels returns the canonical billboard levels.
func (h *Handler) ListLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pricing.Levels())
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ReplacePriceRows replaces the price table and refreshes the cache.
func (h *Handler) ReplacePriceRows(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	rows, err := h.CatalogFactory.ParsePriceRows(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid price rows", err)
		return
	}
	if err := h.Store.ReplacePriceRows(r.Context(), rows); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save price rows", err)
		return
	}

	writeJSON(w, http.StatusOK, h.refresh(r))
}

// SaveSizes upserts sizes and refreshes the cache.
func (h *Handler) SaveSizes(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	sizes, err := h.CatalogFactory.ParseSizes(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sizes", err)
		return
	}
	if err := h.Store.SaveSizes(r.Context(), sizes); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save sizes", err)
		return
	}

	writeJSON(w, http.StatusOK, h.refresh(r))
}

// SaveCategories adds customer categories and refreshes the cache.
func (h *Handler) SaveCategories(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	cats, err := h.CatalogFactory.ParseCustomerCategories(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer categories", err)
		return
	}
	if err := h.Store.SaveCustomerCategories(r.Context(), cats); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save customer categories", err)
		return
	}

	writeJSON(w, http.StatusOK, h.refresh(r))
}

// =============================================================================
// INSTALLMENT HANDLERS
// =============================================================================

// DistributeEven splits the final total into equal installments.
func (h *Handler) DistributeEven(w http.ResponseWriter, r *http.Request) {
	var req EvenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, ok := h.newScheduler(w, req.ContractWindow)
	if !ok {
		return
	}

	if err := s.DistributeEvenly(req.Count); err != nil {
		writeDomainError(w, "Failed to distribute installments", err)
		return
	}
	writeJSON(w, http.StatusOK, h.scheduleResponse(s))
}

// DistributeInterval builds a first payment plus recurring installments.
func (h *Handler) DistributeInterval(w http.ResponseWriter, r *http.Request) {
	var req IntervalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	plan, err := req.Plan()
	if err != nil {
		writeDomainError(w, "Invalid interval plan", err)
		return
	}
	s, ok := h.newScheduler(w, req.ContractWindow)
	if !ok {
		return
	}

	if err := s.DistributeWithInterval(plan); err != nil {
		writeDomainError(w, "Failed to distribute installments", err)
		return
	}
	writeJSON(w, http.StatusOK, h.scheduleResponse(s))
}

// CreateManual returns zero-amount placeholders to fill in by hand.
func (h *Handler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req EvenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, ok := h.newScheduler(w, req.ContractWindow)
	if !ok {
		return
	}

	if err := s.CreateManualInstallments(req.Count); err != nil {
		writeDomainError(w, "Failed to create installments", err)
		return
	}
	writeJSON(w, http.StatusOK, h.scheduleResponse(s))
}

// ValidateSchedule checks a schedule against its final total.
func (h *Handler) ValidateSchedule(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sum := generic.SumAmounts(req.Installments)
	resp := ValidateResponse{
		Valid:      true,
		Sum:        sum,
		Difference: sum.Sub(req.FinalTotal),
	}
	if err := installments.Validate(req.Installments, req.FinalTotal); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// SummarizeSchedule groups a schedule and renders its text.
func (h *Handler) SummarizeSchedule(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = h.Currency
	}

	writeJSON(w, http.StatusOK, SummaryResponse{
		Groups:  toPaymentGroupDTOs(installments.GroupRepeatingPayments(req.Installments)),
		Summary: installments.GeneratePaymentSummaryText(req.Installments, currency),
		Clause:  installments.GeneratePaymentsClauseText(req.Installments, currency),
	})
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// SaveContractSchedule validates a schedule and stores it on the contract.
func (h *Handler) SaveContractSchedule(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "id")

	var req SaveScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	period, err := req.Period()
	if err != nil {
		writeDomainError(w, "Invalid contract period", err)
		return
	}
	if err := installments.Validate(req.Installments, req.FinalTotal); err != nil {
		writeDomainError(w, "Schedule does not match final total", err)
		return
	}

	sched := generic.ContractSchedule{
		ID:           uuid.New().String(),
		ContractID:   contractID,
		FinalTotal:   req.FinalTotal,
		Period:       period,
		Installments: req.Installments,
		SavedAt:      generic.Today(),
	}
	if err := h.Store.SaveSchedule(r.Context(), sched); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save schedule", err)
		return
	}

	h.logger.Info("schedule saved",
		zap.String("contract_id", contractID),
		zap.Int("installments", len(sched.Installments)),
		zap.String("final_total", sched.FinalTotal.String()),
	)
	writeJSON(w, http.StatusOK, h.toContractScheduleDTO(sched))
}

// GetContractSchedule returns the stored schedule with its text.
func (h *Handler) GetContractSchedule(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "id")

	sched, err := h.Store.LoadSchedule(r.Context(), contractID)
	if err != nil {
		writeDomainError(w, "Failed to load schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toContractScheduleDTO(sched))
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.currentScenario = ""
	h.refresh(r)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) newScheduler(w http.ResponseWriter, win ContractWindow) (*installments.Scheduler, bool) {
	period, err := win.Period()
	if err != nil {
		writeDomainError(w, "Invalid contract period", err)
		return nil, false
	}
	return installments.NewScheduler(period, win.FinalTotal, h.logger, h.recorder), true
}

func (h *Handler) scheduleResponse(s *installments.Scheduler) ScheduleResponse {
	list := s.Installments()
	return ScheduleResponse{
		Installments: list,
		Total:        generic.SumAmounts(list),
		Unallocated:  s.Unallocated(),
		Summary:      installments.GeneratePaymentSummaryText(list, h.Currency),
		Clause:       installments.GeneratePaymentsClauseText(list, h.Currency),
	}
}

func (h *Handler) toContractScheduleDTO(s generic.ContractSchedule) ContractScheduleDTO {
	list := s.Installments
	if list == nil {
		list = []generic.Installment{}
	}
	return ContractScheduleDTO{
		ID:           s.ID,
		ContractID:   s.ContractID,
		FinalTotal:   s.FinalTotal,
		StartDate:    s.Period.Start,
		EndDate:      s.Period.End,
		Installments: list,
		SavedAt:      s.SavedAt,
		Summary:      installments.GeneratePaymentSummaryText(list, h.Currency),
		Clause:       installments.GeneratePaymentsClauseText(list, h.Currency),
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return nil, false
	}
	return body, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
