package services

import (
	"time"

	"sales-dashboard/models"
)

// DefaultSaleType is preselected when the dataset contains it.
const DefaultSaleType = "VALID"

// SaleTypeOptions lists the distinct sale types in the order first seen.
func SaleTypeOptions(sales []*models.Sale) []string {
	seen := make(map[string]struct{})
	options := make([]string, 0)
	for _, s := range sales {
		if s == nil {
			continue
		}
		if _, dup := seen[s.SaleType]; dup {
			continue
		}
		seen[s.SaleType] = struct{}{}
		options = append(options, s.SaleType)
	}
	return options
}

// DefaultSaleTypes picks the initial selection: VALID when offered, else the
// first option, else nothing.
func DefaultSaleTypes(options []string) []string {
	for _, o := range options {
		if o == DefaultSaleType {
			return []string{DefaultSaleType}
		}
	}
	if len(options) > 0 {
		return []string{options[0]}
	}
	return []string{}
}

// DateBounds returns the earliest and latest sale dates. ok is false for an
// empty dataset.
func DateBounds(sales []*models.Sale) (earliest, latest time.Time, ok bool) {
	for _, s := range sales {
		if s == nil {
			continue
		}
		if !ok {
			earliest, latest, ok = s.SaleDate, s.SaleDate, true
			continue
		}
		if s.SaleDate.Before(earliest) {
			earliest = s.SaleDate
		}
		if s.SaleDate.After(latest) {
			latest = s.SaleDate
		}
	}
	return earliest, latest, ok
}

// DefaultFilter covers the whole dataset date range with the default sale
// type selection.
func DefaultFilter(sales []*models.Sale) models.Filter {
	earliest, latest, _ := DateBounds(sales)
	return models.Filter{
		Start:     earliest,
		End:       latest,
		SaleTypes: DefaultSaleTypes(SaleTypeOptions(sales)),
	}
}
