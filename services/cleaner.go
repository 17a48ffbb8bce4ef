package services

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"sales-dashboard/models"
	"sales-dashboard/utils"
)

// UnknownSaleType replaces blank sale type labels.
const UnknownSaleType = "Unknown"

// dateLayouts are tried in order when parsing a raw sale date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"01/02/2006",
	"1/2/2006",
}

// Cleaner turns RawSales into typed Sales. Rows whose date or price cannot be
// coerced are dropped with a warning.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw rows and returns cleaned records.
func (c *Cleaner) Clean(raw []*models.RawSale) []*models.Sale {
	result := make([]*models.Sale, 0, len(raw))

	for _, r := range raw {
		if r == nil {
			continue
		}

		date, ok := parseSaleDate(r.SaleDate)
		if !ok {
			c.logger.Warn("[cleaner] %s row %d: dropping sale with unparseable date %q", r.Source, r.Row, r.SaleDate)
			continue
		}

		price, ok := parsePrice(r.Price)
		if !ok {
			c.logger.Warn("[cleaner] %s row %d: dropping sale with invalid price %q", r.Source, r.Row, r.Price)
			continue
		}

		result = append(result, &models.Sale{
			PropertyID: normaliseText(r.PropertyID),
			SaleDate:   date,
			Price:      price,
			SaleType:   normaliseSaleType(r.SaleType),
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d sales (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parseSaleDate accepts the layouts in dateLayouts and keeps only the
// calendar date, as midnight UTC.
func parseSaleDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// parsePrice strips currency symbols and thousands separators.
// Examples:
//
//	"$450,000"   → 450000
//	"412500.50"  → 412500.5
//	"-1"         → rejected
func parsePrice(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}

// normaliseSaleType canonicalises a label so visually identical values match
// exactly; blank labels become UnknownSaleType.
func normaliseSaleType(s string) string {
	s = normaliseText(norm.NFC.String(s))
	if s == "" {
		return UnknownSaleType
	}
	return s
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
