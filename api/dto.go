/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Pricing:
    PriceResponse, QuoteRequest, ContractQuoteRequest, ContractQuoteResponse

  Installments:
    ContractWindow, EvenRequest, IntervalRequest, ScheduleResponse,
    ValidateRequest, ValidateResponse, SummaryRequest, SummaryResponse

  Contracts:
    SaveScheduleRequest, ContractScheduleDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

AMOUNTS:
  Amounts are decimal strings on output and accept numbers or strings on
  input. A price that cannot be resolved is JSON null, never 0.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/catalog.go: Price row JSON
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
	"github.com/warp/billboard-engine/installments"
	"github.com/warp/billboard-engine/pricing"
)

// =============================================================================
// PRICING
// =============================================================================

// PriceResponse is a single resolved price. Price is null when unresolvable.
type PriceResponse struct {
	Size     string              `json:"size"`
	Level    string              `json:"level"`
	Category string              `json:"category"`
	Months   int                 `json:"months,omitempty"`
	Days     int                 `json:"days,omitempty"`
	Price    decimal.NullDecimal `json:"price"`
}

// QuoteRequest prices one size by months or by days.
type QuoteRequest struct {
	Size     string `json:"size"`
	Level    string `json:"level"`
	Category string `json:"category"`
	Months   int    `json:"months"`
	Days     int    `json:"days"`
}

// ContractQuoteRequest prices a set of raw billboard records.
type ContractQuoteRequest struct {
	Category   string           `json:"category"`
	Months     int              `json:"months"`
	Days       int              `json:"days"`
	Billboards []map[string]any `json:"billboards"`
}

// QuoteLineDTO is one billboard's price in a contract quote.
type QuoteLineDTO struct {
	BillboardID string              `json:"billboard_id"`
	Name        string              `json:"name,omitempty"`
	Size        string              `json:"size"`
	Level       string              `json:"level"`
	Price       decimal.NullDecimal `json:"price"`
}

// ContractQuoteResponse is the aggregated quote.
type ContractQuoteResponse struct {
	Lines    []QuoteLineDTO  `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Unpriced []string        `json:"unpriced"`
}

// SizeDTO is a canonical size.
type SizeDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toContractQuoteResponse(q pricing.ContractQuote) ContractQuoteResponse {
	resp := ContractQuoteResponse{
		Lines:    make([]QuoteLineDTO, len(q.Lines)),
		Total:    q.Total,
		Unpriced: q.Unpriced,
	}
	if resp.Unpriced == nil {
		resp.Unpriced = []string{}
	}
	for i, line := range q.Lines {
		resp.Lines[i] = QuoteLineDTO{
			BillboardID: line.Billboard.ID,
			Name:        line.Billboard.Name,
			Size:        line.Billboard.SizeRef().String(),
			Level:       line.Billboard.Level,
			Price:       line.Price,
		}
	}
	return resp
}

// =============================================================================
// INSTALLMENTS
// =============================================================================

// ContractWindow is the part every schedule request shares.
type ContractWindow struct {
	FinalTotal decimal.Decimal `json:"final_total"`
	StartDate  generic.Date    `json:"start_date"`
	EndDate    generic.Date    `json:"end_date"`
}

// Period returns the rental window; a missing start means today.
func (w ContractWindow) Period() (generic.Period, error) {
	p := generic.Period{Start: w.StartDate, End: w.EndDate}
	if p.Start.IsZero() {
		p.Start = generic.Today()
	}
	return p, p.Validate()
}

// EvenRequest asks for count equal installments, or count placeholders.
type EvenRequest struct {
	ContractWindow
	Count int `json:"count"`
}

// IntervalRequest asks for a first payment followed by recurring installments.
type IntervalRequest struct {
	ContractWindow
	FirstPayment     decimal.Decimal `json:"first_payment"`
	FirstPaymentType string          `json:"first_payment_type"` // "amount" or "percent"
	Interval         string          `json:"interval"`           // month, 2months, 3months, 4months
	NumPayments      int             `json:"num_payments"`
	LastPaymentDate  generic.Date    `json:"last_payment_date"`
	FirstPaymentDate generic.Date    `json:"first_payment_date"`
}

// Plan converts the request to an installments.IntervalPlan.
func (r IntervalRequest) Plan() (installments.IntervalPlan, error) {
	iv, err := installments.ParseInterval(r.Interval)
	if err != nil {
		return installments.IntervalPlan{}, err
	}
	return installments.IntervalPlan{
		FirstPayment:     r.FirstPayment,
		FirstPaymentKind: installments.ParseFirstPaymentKind(r.FirstPaymentType),
		Interval:         iv,
		NumPayments:      r.NumPayments,
		LastPaymentDate:  r.LastPaymentDate,
		FirstPaymentDate: r.FirstPaymentDate,
	}, nil
}

// ScheduleResponse is a generated schedule with its rendered text.
type ScheduleResponse struct {
	Installments []generic.Installment `json:"installments"`
	Total        decimal.Decimal       `json:"total"`
	Unallocated  decimal.Decimal       `json:"unallocated"`
	Summary      string                `json:"summary"`
	Clause       string                `json:"clause"`
}

// ValidateRequest checks a hand-edited schedule.
type ValidateRequest struct {
	FinalTotal   decimal.Decimal       `json:"final_total"`
	Installments []generic.Installment `json:"installments"`
}

// ValidateResponse reports the outcome. Difference is sum - final total.
type ValidateResponse struct {
	Valid      bool            `json:"valid"`
	Sum        decimal.Decimal `json:"sum"`
	Difference decimal.Decimal `json:"difference"`
	Error      string          `json:"error,omitempty"`
}

// SummaryRequest renders text for a schedule.
type SummaryRequest struct {
	Installments []generic.Installment `json:"installments"`
	Currency     string                `json:"currency"`
}

// PaymentGroupDTO is a run of equal consecutive installments.
type PaymentGroupDTO struct {
	Amount      decimal.Decimal     `json:"amount"`
	Count       int                 `json:"count"`
	StartIndex  int                 `json:"start_index"`
	PaymentType generic.PaymentType `json:"payment_type"`
	FirstDue    generic.Date        `json:"first_due"`
	LastDue     generic.Date        `json:"last_due"`
}

// SummaryResponse carries groups and both renderings.
type SummaryResponse struct {
	Groups  []PaymentGroupDTO `json:"groups"`
	Summary string            `json:"summary"`
	Clause  string            `json:"clause"`
}

func toPaymentGroupDTOs(groups []installments.PaymentGroup) []PaymentGroupDTO {
	dtos := make([]PaymentGroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = PaymentGroupDTO{
			Amount:      g.Amount,
			Count:       g.Count,
			StartIndex:  g.StartIndex,
			PaymentType: g.PaymentType,
			FirstDue:    g.FirstDue,
			LastDue:     g.LastDue,
		}
	}
	return dtos
}

// =============================================================================
// CONTRACTS
// =============================================================================

// SaveScheduleRequest stores a schedule on a contract.
type SaveScheduleRequest struct {
	ContractWindow
	Installments []generic.Installment `json:"installments"`
}

// ContractScheduleDTO is a stored schedule with rendered text.
type ContractScheduleDTO struct {
	ID           string                `json:"id"`
	ContractID   string                `json:"contract_id"`
	FinalTotal   decimal.Decimal       `json:"final_total"`
	StartDate    generic.Date          `json:"start_date"`
	EndDate      generic.Date          `json:"end_date"`
	Installments []generic.Installment `json:"installments"`
	SavedAt      generic.Date          `json:"saved_at"`
	Summary      string                `json:"summary"`
	Clause       string                `json:"clause"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo catalog.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to seed.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
