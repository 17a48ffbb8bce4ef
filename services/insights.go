package services

import (
	"fmt"
	"io"
	"strings"

	"sales-dashboard/models"
	"sales-dashboard/utils"
)

// DefaultRecentLimit is how many transactions the recent-sales table shows.
const DefaultRecentLimit = 100

// QueryService builds dashboard views over an immutable table of sales.
type QueryService struct {
	logger *utils.Logger
}

func NewQueryService(logger *utils.Logger) *QueryService {
	return &QueryService{logger: logger}
}

// Generate filters sales and derives the KPI summary, the monthly average
// trend and the most recent transactions.
func (s *QueryService) Generate(sales []*models.Sale, f models.Filter, limit int) *models.DashboardView {
	filtered := Apply(sales, f)

	view := &models.DashboardView{
		Filter:  f,
		Summary: Summarize(filtered),
		Monthly: MonthlyAverage(filtered),
		Recent:  MostRecent(filtered, limit),
	}

	s.logger.Debug("[query] %s..%s types=%v: %d of %d sales, %d months, %d recent",
		f.Start.Format(models.DateLayout), f.End.Format(models.DateLayout), f.SaleTypes,
		len(filtered), len(sales), len(view.Monthly), len(view.Recent))
	return view
}

// Print writes a plain-text rendering of the view to w.
func (s *QueryService) Print(w io.Writer, v *models.DashboardView) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Fprintf(w, "%s\n", sep)
	fmt.Fprintf(w, "  REAL ESTATE SALES DASHBOARD\n")
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Filters\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Date range : %s to %s\n",
		v.Filter.Start.Format(models.DateLayout), v.Filter.End.Format(models.DateLayout))
	fmt.Fprintf(w, "  Sale types : %s\n\n", strings.Join(v.Filter.SaleTypes, ", "))

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total sales     : %s\n", FormatCount(v.Summary.TotalSales))
	fmt.Fprintf(w, "  Total volume    : %s\n", FormatDollars(v.Summary.TotalVolume))
	fmt.Fprintf(w, "  Avg. sale price : %s\n\n", FormatDollars(v.Summary.AveragePrice))

	fmt.Fprintf(w, "  Average Sale Price by Month\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(v.Monthly) == 0 {
		fmt.Fprintf(w, "  No sales match the current filters\n")
	} else {
		peak := 0.0
		for _, m := range v.Monthly {
			if m.AveragePrice > peak {
				peak = m.AveragePrice
			}
		}
		for _, m := range v.Monthly {
			fmt.Fprintf(w, "  %s %14s %s\n", m.Month, FormatDollars(m.AveragePrice), bar(m.AveragePrice, peak, 30))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Most Recent Sales\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(v.Recent) == 0 {
		fmt.Fprintf(w, "  No sales match the current filters\n")
	} else {
		fmt.Fprintf(w, "  %-10s  %-18s %14s  %s\n", "Date", "Property", "Price", "Sale type")
		for _, sale := range v.Recent {
			fmt.Fprintf(w, "  %-10s  %-18s %14s  %s\n",
				sale.SaleDate.Format(models.DateLayout), truncate(sale.PropertyID, 18),
				FormatDollars(sale.Price), sale.SaleType)
		}
	}

	fmt.Fprintf(w, "\n%s\n", sep)
}

// FormatDollars renders an amount as whole dollars with thousands separators.
func FormatDollars(amount float64) string {
	rounded := int64(amount + 0.5)
	if amount < 0 {
		rounded = int64(amount - 0.5)
	}
	if rounded < 0 {
		return "-$" + groupThousands(-rounded)
	}
	return "$" + groupThousands(rounded)
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + groupThousands(int64(-n))
	}
	return groupThousands(int64(n))
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func bar(value, peak float64, width int) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := int(value / peak * float64(width))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
