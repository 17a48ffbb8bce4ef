package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"sales-dashboard/models"
	"sales-dashboard/services"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"dollars": services.FormatDollars,
	"count":   services.FormatCount,
	"date":    func(s *models.Sale) string { return s.SaleDate.Format(models.DateLayout) },
	"dec":     func(n int) int { return n - 1 },
}).ParseFS(templateFS, "templates/dashboard.html"))

const (
	chartWidth  = 800
	chartHeight = 240
	chartPad    = 30
)

type typeOption struct {
	Name     string
	Selected bool
}

type chartPoint struct {
	X, Y  float64
	Label string
	Value string
}

type pageData struct {
	View    *models.DashboardView
	Start   string
	End     string
	Types   []typeOption
	Points  []chartPoint
	Line    string
	Width   int
	Height  int
	MinText string
	MaxText string
}

func (s *Server) page(v *models.DashboardView) pageData {
	chosen := make(map[string]bool, len(v.Filter.SaleTypes))
	for _, t := range v.Filter.SaleTypes {
		chosen[t] = true
	}
	types := make([]typeOption, 0, len(s.options))
	for _, o := range s.options {
		types = append(types, typeOption{Name: o, Selected: chosen[o]})
	}

	d := pageData{
		View:   v,
		Types:  types,
		Width:  chartWidth,
		Height: chartHeight,
	}
	if !v.Filter.Start.IsZero() {
		d.Start = v.Filter.Start.Format(models.DateLayout)
	}
	if !v.Filter.End.IsZero() {
		d.End = v.Filter.End.Format(models.DateLayout)
	}

	d.Points = chartPoints(v.Monthly, chartWidth, chartHeight)
	coords := make([]string, 0, len(d.Points))
	for _, p := range d.Points {
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
	}
	d.Line = strings.Join(coords, " ")
	if len(v.Monthly) > 0 {
		lo, hi := priceRange(v.Monthly)
		d.MinText, d.MaxText = services.FormatDollars(lo), services.FormatDollars(hi)
	}
	return d
}

// chartPoints maps the monthly trend into SVG coordinates, oldest month on
// the left and the highest average at the top.
func chartPoints(monthly []models.MonthlyAverage, width, height int) []chartPoint {
	if len(monthly) == 0 {
		return nil
	}
	lo, hi := priceRange(monthly)
	plotW := float64(width - 2*chartPad)
	plotH := float64(height - 2*chartPad)

	points := make([]chartPoint, 0, len(monthly))
	for i, m := range monthly {
		x := float64(chartPad) + plotW/2
		if len(monthly) > 1 {
			x = float64(chartPad) + plotW*float64(i)/float64(len(monthly)-1)
		}
		y := float64(chartPad) + plotH/2
		if hi > lo {
			y = float64(chartPad) + plotH*(1-(m.AveragePrice-lo)/(hi-lo))
		}
		points = append(points, chartPoint{
			X:     x,
			Y:     y,
			Label: m.Month.String(),
			Value: services.FormatDollars(m.AveragePrice),
		})
	}
	return points
}

func priceRange(monthly []models.MonthlyAverage) (lo, hi float64) {
	lo, hi = monthly[0].AveragePrice, monthly[0].AveragePrice
	for _, m := range monthly {
		lo = min(lo, m.AveragePrice)
		hi = max(hi, m.AveragePrice)
	}
	return lo, hi
}

func renderPage(w io.Writer, d pageData) error {
	return pageTemplate.Execute(w, d)
}
