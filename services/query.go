package services

import (
	"sort"
	"time"

	"sales-dashboard/models"
)

// Filter returns the sales dated within [start, end] (inclusive, compared by
// calendar day) whose sale type is one of saleTypes.
//
// An empty saleTypes selects nothing, and an inverted range yields an empty
// result rather than an error. The input slice is never modified.
func Filter(sales []*models.Sale, start, end time.Time, saleTypes []string) []*models.Sale {
	result := make([]*models.Sale, 0)
	if len(sales) == 0 || len(saleTypes) == 0 {
		return result
	}

	from, to := dayOf(start), dayOf(end)
	if from.After(to) {
		return result
	}

	allowed := make(map[string]struct{}, len(saleTypes))
	for _, t := range saleTypes {
		allowed[t] = struct{}{}
	}

	for _, s := range sales {
		if s == nil {
			continue
		}
		day := dayOf(s.SaleDate)
		if day.Before(from) || day.After(to) {
			continue
		}
		if _, ok := allowed[s.SaleType]; !ok {
			continue
		}
		result = append(result, s)
	}
	return result
}

// Apply is Filter driven by a models.Filter.
func Apply(sales []*models.Sale, f models.Filter) []*models.Sale {
	return Filter(sales, f.Start, f.End, f.SaleTypes)
}

// MonthlyAverage groups sales by calendar month and returns the mean price of
// each month in chronological order. Months without sales are omitted.
func MonthlyAverage(sales []*models.Sale) []models.MonthlyAverage {
	type bucket struct {
		total float64
		count int
	}

	buckets := make(map[models.Month]*bucket)
	for _, s := range sales {
		if s == nil {
			continue
		}
		m := models.MonthOf(s.SaleDate)
		b, ok := buckets[m]
		if !ok {
			b = &bucket{}
			buckets[m] = b
		}
		b.total += s.Price
		b.count++
	}

	result := make([]models.MonthlyAverage, 0, len(buckets))
	for m, b := range buckets {
		result = append(result, models.MonthlyAverage{
			Month:        m,
			AveragePrice: b.total / float64(b.count),
			Count:        b.count,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Month.Before(result[j].Month)
	})
	return result
}

// MostRecent returns up to limit sales ordered by sale date, newest first.
// Sales sharing a date keep their input order. limit <= 0 yields nothing.
func MostRecent(sales []*models.Sale, limit int) []*models.Sale {
	if limit <= 0 || len(sales) == 0 {
		return make([]*models.Sale, 0)
	}

	sorted := make([]*models.Sale, 0, len(sales))
	for _, s := range sales {
		if s != nil {
			sorted = append(sorted, s)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SaleDate.After(sorted[j].SaleDate)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// dayOf drops the clock portion of t, keeping its calendar date.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
