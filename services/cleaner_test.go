package services

import (
	"testing"
	"time"

	"sales-dashboard/models"
	"sales-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.Discard() }

func TestCleanerParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"400000", 400000, true},
		{"$1,200.50", 1200.50, true},
		{" 525 000 ", 525000, true},
		{"0", 0, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"-5", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parsePrice(%q) = %.2f, %v; want %.2f, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCleanerParseSaleDate(t *testing.T) {
	want := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2023-01-15",
		"2023-01-15T10:30:00Z",
		"2023-01-15 00:00:00",
		"2023-01-15 00:00:00+00:00",
		"01/15/2023",
		"1/15/2023",
	} {
		got, ok := parseSaleDate(raw)
		if !ok || !got.Equal(want) {
			t.Errorf("parseSaleDate(%q) = %v, %v; want %v", raw, got, ok, want)
		}
	}

	for _, raw := range []string{"", "yesterday", "2023-13-01"} {
		if _, ok := parseSaleDate(raw); ok {
			t.Errorf("parseSaleDate(%q) should fail", raw)
		}
	}
}

func TestCleanerNormalisesSaleType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"VALID", "VALID"},
		{"  VALID ", "VALID"},
		{"", UnknownSaleType},
		{"   ", UnknownSaleType},
		{"NOT  VALID", "NOT VALID"},
		{"Venté", "Venté"},
	}
	for _, tt := range tests {
		if got := normaliseSaleType(tt.raw); got != tt.want {
			t.Errorf("normaliseSaleType(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerDropsMalformedRows(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawSale{
		{PropertyID: "0101 01 0001", SaleDate: "2023-01-15", Price: "400000", SaleType: "VALID", Row: 1},
		{PropertyID: "0101 01 0002", SaleDate: "not a date", Price: "1", SaleType: "VALID", Row: 2},
		{PropertyID: "0101 01 0003", SaleDate: "2023-01-16", Price: "free", SaleType: "VALID", Row: 3},
		{PropertyID: "0101 01 0004", SaleDate: "2023-01-17", Price: "$99,000", SaleType: "", Row: 4},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 sales after dropping malformed rows, got %d", len(cleaned))
	}
	if cleaned[1].SaleType != UnknownSaleType {
		t.Errorf("blank sale type: got %q, want %q", cleaned[1].SaleType, UnknownSaleType)
	}
	if cleaned[1].Price != 99000 {
		t.Errorf("price: got %.2f, want 99000", cleaned[1].Price)
	}
}
