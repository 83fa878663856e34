/*
Package generic provides the shared data model for the billboard contract engine.

PURPOSE:
  This package contains the types that both the pricing resolver and the
  installment scheduler speak: price table rows, sizes, billboards,
  installments and the calendar types used for due dates. It knows nothing
  about how prices are resolved or how totals are distributed.

KEY CONCEPTS IN THIS FILE (types.go):
  - PriceRow: One row of the price table per (size, level, customer category)
  - MonthBucket: The committed durations a price is tabulated for
  - Size: Canonical billboard size with an id
  - Billboard: A normalized billboard record
  - Installment: One scheduled payment of a contract total
  - PaymentType: Payment cadence, decoupled from its display label

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for every amount
  2. Absence is explicit: a missing price is decimal.NullDecimal, never 0
  3. Locale text lives in one translation table (PaymentType labels)

SEE ALSO:
  - money.go: Cent rounding helpers
  - time.go: Date type
  - store.go: Catalog and schedule persistence interfaces
*/
package generic

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEVELS & CUSTOMER CATEGORIES
// =============================================================================

// Canonical billboard levels.
const (
	LevelNormal  = "عادي"
	LevelPremium = "ممتاز"
	LevelVIP     = "VIP"
)

// Customer categories known to the built-in price list.
const (
	CategoryNormal    = "عادي"
	CategoryCity      = "المدينة"
	CategoryMarketer  = "مسوق"
	CategoryCompanies = "شركات"
)

// CustomerCategory is a pricing segment applied per customer.
type CustomerCategory struct {
	Name string
}

// =============================================================================
// PRICE TABLE
// =============================================================================

// MonthBucket is a committed rental duration in months.
type MonthBucket int

const (
	Bucket1Month   MonthBucket = 1
	Bucket2Months  MonthBucket = 2
	Bucket3Months  MonthBucket = 3
	Bucket6Months  MonthBucket = 6
	Bucket12Months MonthBucket = 12
)

// MonthBuckets lists every tabulated duration in ascending order.
var MonthBuckets = []MonthBucket{Bucket1Month, Bucket2Months, Bucket3Months, Bucket6Months, Bucket12Months}

// ParseMonthBucket returns the bucket for months, or false when the duration
// is not tabulated. There is no interpolation between buckets.
func ParseMonthBucket(months int) (MonthBucket, bool) {
	for _, b := range MonthBuckets {
		if int(b) == months {
			return b, true
		}
	}
	return 0, false
}

// PriceRow is one row of the price table. Rows are immutable lookup data.
type PriceRow struct {
	SizeID           *int64
	SizeName         string
	Level            string
	CustomerCategory string
	MonthlyPrices    map[MonthBucket]decimal.Decimal
	DailyPrice       decimal.NullDecimal
}

// MonthlyPrice returns the tabulated price for the bucket.
func (r PriceRow) MonthlyPrice(b MonthBucket) decimal.NullDecimal {
	p, ok := r.MonthlyPrices[b]
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(p)
}

// HasSizeID reports whether the row carries the canonical size foreign key.
func (r PriceRow) HasSizeID() bool { return r.SizeID != nil }

// Size is a canonical billboard size.
type Size struct {
	ID   int64
	Name string
}

// =============================================================================
// BILLBOARD
// =============================================================================

// Billboard is the normalized form of a billboard record. Raw records are
// mapped into it once, at ingestion (see factory.NormalizeBillboard).
type Billboard struct {
	ID     string
	Name   string
	Size   string
	SizeID *int64
	Level  string
	City   string
}

// SizeRef returns what the resolver looks the billboard up by: the size id
// when known, with the free-text size kept for the name-based tiers.
func (b Billboard) SizeRef() SizeRef {
	return SizeRef{ID: b.SizeID, Text: b.Size}
}

// SizeRef is a numeric size id, a free-text size string, or both.
type SizeRef struct {
	ID   *int64
	Text string
}

func SizeRefFromID(id int64) SizeRef { return SizeRef{ID: &id} }

func SizeRefFromText(s string) SizeRef { return SizeRef{Text: s} }

func (s SizeRef) IsID() bool { return s.ID != nil }

func (s SizeRef) String() string {
	if s.ID != nil {
		return strconv.FormatInt(*s.ID, 10)
	}
	return s.Text
}

// =============================================================================
// INSTALLMENTS
// =============================================================================

// PaymentType is the cadence of an installment. The zero value means no
// explicit cadence was chosen.
type PaymentType int

const (
	PaymentUnset PaymentType = iota
	PaymentOnSigning
	PaymentMonthly
	PaymentBimonthly
	PaymentQuarterly
	PaymentFourMonthly
	PaymentOnInstallation
	PaymentOnContractEnd
)

var paymentTypeLabels = map[PaymentType]string{
	PaymentOnSigning:      "عند التوقيع",
	PaymentMonthly:        "شهري",
	PaymentBimonthly:      "شهرين",
	PaymentQuarterly:      "ثلاثة أشهر",
	PaymentFourMonthly:    "4 أشهر",
	PaymentOnInstallation: "عند التركيب",
	PaymentOnContractEnd:  "نهاية العقد",
}

// Label returns the display string stored on contracts.
func (p PaymentType) Label() string { return paymentTypeLabels[p] }

func (p PaymentType) String() string { return p.Label() }

// ParsePaymentType maps a display label back to its cadence. Unknown labels
// yield PaymentUnset and false.
func ParsePaymentType(label string) (PaymentType, bool) {
	label = strings.TrimSpace(label)
	for p, l := range paymentTypeLabels {
		if l == label {
			return p, true
		}
	}
	return PaymentUnset, false
}

func (p PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Label())
}

func (p *PaymentType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p, _ = ParsePaymentType(s)
	return nil
}

// Installment is one scheduled payment. The JSON shape is the one persisted
// on the contract record.
type Installment struct {
	Amount      decimal.Decimal
	PaymentType PaymentType
	// Label keeps a hand-entered paymentType that maps to no known cadence.
	// Only read when PaymentType is PaymentUnset.
	Label       string
	Description string
	DueDate     Date
}

type installmentJSON struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"paymentType"`
	Description string          `json:"description"`
	DueDate     Date            `json:"dueDate"`
}

// TypeLabel is the paymentType text shown and stored for the installment.
func (i Installment) TypeLabel() string {
	if i.PaymentType == PaymentUnset {
		return i.Label
	}
	return i.PaymentType.Label()
}

func (i Installment) MarshalJSON() ([]byte, error) {
	return json.Marshal(installmentJSON{
		Amount:      i.Amount,
		PaymentType: i.TypeLabel(),
		Description: i.Description,
		DueDate:     i.DueDate,
	})
}

func (i *Installment) UnmarshalJSON(b []byte) error {
	var raw installmentJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	pt, ok := ParsePaymentType(raw.PaymentType)
	*i = Installment{
		Amount:      raw.Amount,
		PaymentType: pt,
		Description: raw.Description,
		DueDate:     raw.DueDate,
	}
	if !ok {
		i.Label = raw.PaymentType
	}
	return nil
}

// SumAmounts adds up every installment amount.
func SumAmounts(installments []Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Amount)
	}
	return sum
}

// ContractSchedule is the persisted installment array of one contract.
type ContractSchedule struct {
	ID           string
	ContractID   string
	FinalTotal   decimal.Decimal
	Period       Period
	Installments []Installment
	SavedAt      Date
}
