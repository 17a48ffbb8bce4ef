package models

import (
	"fmt"
	"time"
)

// DateLayout is how sale dates are rendered and accepted in filters.
const DateLayout = "2006-01-02"

// RawSale holds one unprocessed row exactly as read from the data source.
// Type coercion happens once, in the cleaner, before any querying.
type RawSale struct {
	PropertyID string
	SaleDate   string
	Price      string
	SaleType   string

	Source string
	Row    int
}

// Sale is a cleaned, typed sale record. Records are never mutated after load.
type Sale struct {
	PropertyID string    `json:"property_id"`
	SaleDate   time.Time `json:"sale_date"`
	Price      float64   `json:"price"`
	SaleType   string    `json:"sale_type"`
}

// Month identifies a calendar year and month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the calendar month t falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m is chronologically earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText renders the month as YYYY-MM so JSON output stays compact.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// MonthlyAverage is one point of the average-sale-price trend.
type MonthlyAverage struct {
	Month        Month   `json:"month"`
	AveragePrice float64 `json:"average_price"`
	Count        int     `json:"count"`
}

// Filter selects sales by an inclusive date range and a set of sale types.
type Filter struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	SaleTypes []string  `json:"sale_types"`
}

// Summary holds the headline figures over a filtered set.
type Summary struct {
	TotalSales   int     `json:"total_sales"`
	TotalVolume  float64 `json:"total_volume"`
	AveragePrice float64 `json:"average_price"`
}

// DashboardView is everything the presentation layers render for one filter.
type DashboardView struct {
	Filter  Filter           `json:"filter"`
	Summary Summary          `json:"summary"`
	Monthly []MonthlyAverage `json:"monthly"`
	Recent  []*Sale          `json:"recent"`
}
