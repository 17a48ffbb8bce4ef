package services

import (
	"github.com/shopspring/decimal"

	"sales-dashboard/models"
)

// Summarize computes the headline KPIs over a filtered set. The total volume
// is accumulated in decimal so thousands of currency amounts do not drift.
func Summarize(sales []*models.Sale) models.Summary {
	var summary models.Summary

	total := decimal.Zero
	for _, s := range sales {
		if s == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(s.Price))
		summary.TotalSales++
	}

	if summary.TotalSales == 0 {
		return summary
	}

	summary.TotalVolume = total.InexactFloat64()
	summary.AveragePrice = total.Div(decimal.NewFromInt(int64(summary.TotalSales))).InexactFloat64()
	return summary
}
