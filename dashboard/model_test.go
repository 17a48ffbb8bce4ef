package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/models"
	"sales-dashboard/services"
	"sales-dashboard/utils"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSales() []*models.Sale {
	return []*models.Sale{
		{PropertyID: "A", SaleDate: day(2023, 1, 15), Price: 400000, SaleType: "VALID"},
		{PropertyID: "B", SaleDate: day(2023, 1, 20), Price: 420000, SaleType: "VALID"},
		{PropertyID: "C", SaleDate: day(2023, 2, 3), Price: 10, SaleType: "NOT MARKET SALE"},
		{PropertyID: "D", SaleDate: day(2023, 3, 1), Price: 500000, SaleType: "VALID"},
	}
}

func testModel(t *testing.T, sales []*models.Sale) model {
	t.Helper()
	logger := utils.Discard()
	return newModel(Deps{
		Sales:  sales,
		Query:  services.NewQueryService(logger),
		Logger: logger,
		Limit:  10,
	})
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		mm, ok := next.(model)
		require.True(t, ok, "update returned %T", next)
		m = mm
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestNewModelDefaults(t *testing.T) {
	m := testModel(t, testSales())

	assert.Equal(t, []string{"VALID", "NOT MARKET SALE"}, m.options)
	assert.Equal(t, []string{"VALID"}, m.filter.SaleTypes)
	assert.Equal(t, "2023-01-15", m.start.Value())
	assert.Equal(t, "2023-03-01", m.end.Value())

	assert.Equal(t, 3, m.view.Summary.TotalSales)
	assert.Len(t, m.view.Monthly, 2)
	require.Len(t, m.view.Recent, 3)
	assert.Equal(t, "D", m.view.Recent[0].PropertyID)
	assert.Len(t, m.recent.Rows(), 3)
}

func TestSaleTypeToggles(t *testing.T) {
	m := testModel(t, testSales())
	m = press(t, m, tab, tab)
	require.Equal(t, focusTypes, m.focus)

	m = press(t, m, runes("a"))
	assert.Equal(t, []string{"VALID", "NOT MARKET SALE"}, m.filter.SaleTypes)
	assert.Equal(t, 4, m.view.Summary.TotalSales)

	m = press(t, m, runes("n"))
	assert.Empty(t, m.filter.SaleTypes)
	assert.Equal(t, 0, m.view.Summary.TotalSales)
	assert.Empty(t, m.view.Recent)
	assert.Contains(t, m.View(), emptyMessage)

	m = press(t, m, runes("j"), space)
	assert.Equal(t, []string{"NOT MARKET SALE"}, m.filter.SaleTypes)
	assert.Equal(t, 1, m.view.Summary.TotalSales)

	m = press(t, m, runes("r"))
	assert.Equal(t, []string{"VALID"}, m.filter.SaleTypes)
	assert.Equal(t, 0, m.cursor)
}

func TestDateInputs(t *testing.T) {
	m := testModel(t, testSales())

	m.start.SetValue("2023-01-18")
	m = press(t, m, enter)
	assert.Empty(t, m.status)
	assert.Equal(t, day(2023, 1, 18), m.filter.Start)
	assert.Equal(t, 2, m.view.Summary.TotalSales)

	m.start.SetValue("2023-13-01")
	m = press(t, m, enter)
	assert.Contains(t, m.status, "Start date")
	assert.Equal(t, day(2023, 1, 18), m.filter.Start, "bad input keeps the previous range")

	m.start.SetValue("2023-04-01")
	m = press(t, m, enter)
	assert.Equal(t, "Start date is after end date", m.status)

	m.start.SetValue("")
	m = press(t, m, tab)
	assert.Empty(t, m.status)
	assert.Equal(t, day(2023, 1, 15), m.filter.Start, "blank start means the earliest sale")
	assert.Equal(t, focusEnd, m.focus)
}

func TestQuitKeys(t *testing.T) {
	m := testModel(t, testSales())

	m = press(t, m, runes("q"))
	assert.Equal(t, focusStart, m.focus, "q goes to the date input")
	assert.Equal(t, "2023-01-15", m.start.Value())

	m = press(t, m, tab, tab)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEmptyDataset(t *testing.T) {
	m := testModel(t, nil)

	assert.Empty(t, m.options)
	assert.Empty(t, m.filter.SaleTypes)
	assert.Equal(t, 0, m.view.Summary.TotalSales)

	view := m.View()
	assert.Contains(t, view, emptyMessage)
	assert.Contains(t, view, "(none)")
}

func TestViewShowsKPIs(t *testing.T) {
	m := testModel(t, testSales())
	view := m.View()

	assert.Contains(t, view, "Real Estate Sales Dashboard")
	assert.Contains(t, view, "$1,320,000")
	assert.Contains(t, view, "$440,000")
	assert.Contains(t, view, "2023-01")
}

func TestSparkline(t *testing.T) {
	points := []models.MonthlyAverage{
		{Month: models.Month{Year: 2023, Month: 1}, AveragePrice: 100},
		{Month: models.Month{Year: 2023, Month: 2}, AveragePrice: 450},
		{Month: models.Month{Year: 2023, Month: 3}, AveragePrice: 800},
	}
	assert.Equal(t, "▁▅█", sparkline(points))

	flat := []models.MonthlyAverage{{AveragePrice: 5}, {AveragePrice: 5}}
	assert.Equal(t, "▄▄", sparkline(flat))

	assert.Equal(t, "", sparkline(nil))
	assert.Equal(t, 3, len([]rune(sparkline(points))))
	assert.False(t, strings.ContainsAny(sparkline(points), " "))
}

func TestSafeModelRecoversFromPanic(t *testing.T) {
	// A model without a query service panics as soon as it refreshes.
	s := wrapSafe(model{focus: focusTypes}, nil)

	next, cmd := s.Update(runes("a"))
	assert.Nil(t, cmd)
	recovered, ok := next.(safeModel)
	require.True(t, ok)
	assert.Equal(t, "Unexpected error (see logs)", recovered.m.status)
}
