/*
Package factory converts backend JSON records into engine types.

PURPOSE:
  The backend stores the price table with one column per duration and
  billboards with inconsistently cased fields. This package is the single
  ingestion boundary: everything past it sees generic.PriceRow and
  generic.Billboard only.

PRICE ROW JSON:
  {
    "size": "4x12",
    "size_id": 3,
    "billboard_level": "عادي",
    "customer_category": "شركات",
    "one_month": 850,
    "2_months": 1530,
    "3_months": "2125",
    "6_months": null,
    "full_year": 6800,
    "one_day": null
  }

  null or absent duration columns mean "no price at that duration".
  Amounts may be JSON numbers or numeric strings.

USAGE:
  f := factory.NewCatalogFactory()
  rows, err := f.ParsePriceRows(body)

SEE ALSO:
  - billboard.go: Raw billboard normalization
  - generic/types.go: PriceRow
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PriceRowJSON is one price table row as the backend returns it.
type PriceRowJSON struct {
	Size             string              `json:"size"`
	SizeID           *int64              `json:"size_id,omitempty"`
	BillboardLevel   string              `json:"billboard_level"`
	CustomerCategory string              `json:"customer_category"`
	OneMonth         decimal.NullDecimal `json:"one_month"`
	TwoMonths        decimal.NullDecimal `json:"2_months"`
	ThreeMonths      decimal.NullDecimal `json:"3_months"`
	SixMonths        decimal.NullDecimal `json:"6_months"`
	FullYear         decimal.NullDecimal `json:"full_year"`
	OneDay           decimal.NullDecimal `json:"one_day"`
}

// SizeJSON is one row of the size table.
type SizeJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CustomerCategoryJSON is one row of the customer category table.
type CustomerCategoryJSON struct {
	Name string `json:"name"`
}

// =============================================================================
// CATALOG FACTORY
// =============================================================================

// CatalogFactory converts backend JSON to catalog types.
type CatalogFactory struct{}

// NewCatalogFactory creates a new catalog factory.
func NewCatalogFactory() *CatalogFactory {
	return &CatalogFactory{}
}

// ParsePriceRows decodes and validates a JSON array of price rows.
func (f *CatalogFactory) ParsePriceRows(data []byte) ([]generic.PriceRow, error) {
	var raw []PriceRowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrInvalidPriceRow, err)
	}
	rows := make([]generic.PriceRow, 0, len(raw))
	for i, r := range raw {
		row, err := r.ToPriceRow()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseSizes decodes a JSON array of sizes.
func (f *CatalogFactory) ParseSizes(data []byte) ([]generic.Size, error) {
	var raw []SizeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	sizes := make([]generic.Size, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		sizes = append(sizes, generic.Size{ID: s.ID, Name: strings.TrimSpace(s.Name)})
	}
	return sizes, nil
}

// ParseCustomerCategories decodes a JSON array of categories, dropping blanks.
func (f *CatalogFactory) ParseCustomerCategories(data []byte) ([]generic.CustomerCategory, error) {
	var raw []CustomerCategoryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	cats := make([]generic.CustomerCategory, 0, len(raw))
	for _, c := range raw {
		if name := strings.TrimSpace(c.Name); name != "" {
			cats = append(cats, generic.CustomerCategory{Name: name})
		}
	}
	return cats, nil
}

// ToPriceRow validates the row and maps duration columns to month buckets.
func (r PriceRowJSON) ToPriceRow() (generic.PriceRow, error) {
	if strings.TrimSpace(r.Size) == "" && r.SizeID == nil {
		return generic.PriceRow{}, fmt.Errorf("%w: size or size_id required", generic.ErrInvalidPriceRow)
	}
	if strings.TrimSpace(r.BillboardLevel) == "" {
		return generic.PriceRow{}, fmt.Errorf("%w: billboard_level required", generic.ErrInvalidPriceRow)
	}
	if strings.TrimSpace(r.CustomerCategory) == "" {
		return generic.PriceRow{}, fmt.Errorf("%w: customer_category required", generic.ErrInvalidPriceRow)
	}

	row := generic.PriceRow{
		SizeID:           r.SizeID,
		SizeName:         strings.TrimSpace(r.Size),
		Level:            strings.TrimSpace(r.BillboardLevel),
		CustomerCategory: strings.TrimSpace(r.CustomerCategory),
		MonthlyPrices:    make(map[generic.MonthBucket]decimal.Decimal),
		DailyPrice:       r.OneDay,
	}

	columns := map[generic.MonthBucket]decimal.NullDecimal{
		generic.Bucket1Month:   r.OneMonth,
		generic.Bucket2Months:  r.TwoMonths,
		generic.Bucket3Months:  r.ThreeMonths,
		generic.Bucket6Months:  r.SixMonths,
		generic.Bucket12Months: r.FullYear,
	}
	for bucket, price := range columns {
		if !price.Valid {
			continue
		}
		if price.Decimal.IsNegative() {
			return generic.PriceRow{}, fmt.Errorf("%w: negative price for %d months", generic.ErrInvalidPriceRow, bucket)
		}
		row.MonthlyPrices[bucket] = price.Decimal
	}
	if row.DailyPrice.Valid && row.DailyPrice.Decimal.IsNegative() {
		return generic.PriceRow{}, fmt.Errorf("%w: negative daily price", generic.ErrInvalidPriceRow)
	}
	return row, nil
}

// FromPriceRow is the inverse of ToPriceRow, used when exporting the table.
func FromPriceRow(row generic.PriceRow) PriceRowJSON {
	return PriceRowJSON{
		Size:             row.SizeName,
		SizeID:           row.SizeID,
		BillboardLevel:   row.Level,
		CustomerCategory: row.CustomerCategory,
		OneMonth:         row.MonthlyPrice(generic.Bucket1Month),
		TwoMonths:        row.MonthlyPrice(generic.Bucket2Months),
		ThreeMonths:      row.MonthlyPrice(generic.Bucket3Months),
		SixMonths:        row.MonthlyPrice(generic.Bucket6Months),
		FullYear:         row.MonthlyPrice(generic.Bucket12Months),
		OneDay:           row.DailyPrice,
	}
}
