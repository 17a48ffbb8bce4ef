package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sales-dashboard/models"
	"sales-dashboard/services"
)

type focus int

const (
	focusStart focus = iota
	focusEnd
	focusTypes
	focusTable
	focusCount
)

const emptyMessage = "No sales match the current filters"

type model struct {
	theme Theme
	deps  Deps

	earliest time.Time
	latest   time.Time

	start textinput.Model
	end   textinput.Model

	options  []string
	selected map[string]bool
	cursor   int

	focus  focus
	filter models.Filter
	view   *models.DashboardView
	recent table.Model

	status string
	width  int
}

// Run opens the dashboard full screen and blocks until the user quits.
func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	if deps.Limit <= 0 {
		deps.Limit = services.DefaultRecentLimit
	}

	m := model{
		theme:   DefaultTheme(),
		deps:    deps,
		options: services.SaleTypeOptions(deps.Sales),
		start:   newDateInput("start"),
		end:     newDateInput("end"),
		recent: table.New(
			table.WithColumns([]table.Column{
				{Title: "Date", Width: 10},
				{Title: "Property", Width: 18},
				{Title: "Price", Width: 14},
				{Title: "Sale type", Width: 16},
			}),
			table.WithHeight(10),
		),
	}
	m.earliest, m.latest, _ = services.DateBounds(deps.Sales)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	m.recent.SetStyles(styles)

	m.reset()
	m.start.Focus()
	return m
}

func newDateInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder + " (YYYY-MM-DD)"
	ti.CharLimit = len(models.DateLayout)
	ti.Width = len(models.DateLayout) + 1
	return ti
}

// reset restores the whole date range and the default sale type selection.
func (m *model) reset() {
	def := services.DefaultFilter(m.deps.Sales)

	m.selected = make(map[string]bool, len(m.options))
	for _, t := range def.SaleTypes {
		m.selected[t] = true
	}
	m.cursor = 0
	m.start.SetValue(formatDate(def.Start))
	m.end.SetValue(formatDate(def.End))
	m.filter = def
	m.status = ""
	m.refresh()
}

// refresh recomputes every view from the applied filter.
func (m *model) refresh() {
	types := make([]string, 0, len(m.selected))
	for _, o := range m.options {
		if m.selected[o] {
			types = append(types, o)
		}
	}
	m.filter.SaleTypes = types
	m.view = m.deps.Query.Generate(m.deps.Sales, m.filter, m.deps.Limit)

	rows := make([]table.Row, 0, len(m.view.Recent))
	for _, s := range m.view.Recent {
		rows = append(rows, table.Row{
			s.SaleDate.Format(models.DateLayout),
			s.PropertyID,
			services.FormatDollars(s.Price),
			s.SaleType,
		})
	}
	m.recent.SetRows(rows)
	m.recent.GotoTop()
}

// applyDates parses both date inputs. A blank input means the dataset bound.
// Invalid input leaves the previous range in place.
func (m *model) applyDates() {
	start, err := parseDateInput(m.start.Value(), m.earliest)
	if err != nil {
		m.status = "Start date: " + err.Error()
		return
	}
	end, err := parseDateInput(m.end.Value(), m.latest)
	if err != nil {
		m.status = "End date: " + err.Error()
		return
	}
	if start.After(end) {
		m.status = "Start date is after end date"
		return
	}

	m.status = ""
	if start.Equal(m.filter.Start) && end.Equal(m.filter.End) {
		return
	}
	m.filter.Start, m.filter.End = start, end
	m.deps.Logger.Debug("[dashboard] date range %s..%s", formatDate(start), formatDate(end))
	m.refresh()
}

func parseDateInput(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", value)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		h := msg.Height - 22
		if h < 5 {
			h = 5
		}
		m.recent.SetHeight(h)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m.setFocus((m.focus + 1) % focusCount)
		case "shift+tab":
			return m.setFocus((m.focus + focusCount - 1) % focusCount)
		case "q":
			if m.focus != focusStart && m.focus != focusEnd {
				return m, tea.Quit
			}
		}

		switch m.focus {
		case focusStart, focusEnd:
			return m.updateDateInput(msg)
		case focusTypes:
			return m.updateTypes(msg), nil
		case focusTable:
			if msg.String() == "r" {
				m.reset()
				return m, nil
			}
			var cmd tea.Cmd
			m.recent, cmd = m.recent.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) setFocus(f focus) (tea.Model, tea.Cmd) {
	if m.focus == focusStart || m.focus == focusEnd {
		m.applyDates()
	}
	m.focus = f

	m.start.Blur()
	m.end.Blur()
	m.recent.Blur()

	var cmd tea.Cmd
	switch f {
	case focusStart:
		cmd = m.start.Focus()
	case focusEnd:
		cmd = m.end.Focus()
	case focusTable:
		m.recent.Focus()
	}
	return m, cmd
}

func (m model) updateDateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		m.applyDates()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusStart {
		m.start, cmd = m.start.Update(msg)
	} else {
		m.end, cmd = m.end.Update(msg)
	}
	return m, cmd
}

func (m model) updateTypes(msg tea.KeyMsg) model {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "space", "enter":
		if len(m.options) == 0 {
			return m
		}
		o := m.options[m.cursor]
		m.selected[o] = !m.selected[o]
		m.refresh()
	case "a":
		for _, o := range m.options {
			m.selected[o] = true
		}
		m.refresh()
	case "n":
		for _, o := range m.options {
			m.selected[o] = false
		}
		m.refresh()
	case "r":
		m.reset()
	}
	return m
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(0, 1)

	header := m.theme.Title.Render("Real Estate Sales Dashboard") + "\n" +
		m.theme.Subtitle.Render(fmt.Sprintf("%s sales loaded", services.FormatCount(len(m.deps.Sales)))) + "\n"

	filters := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card(focusStart, "Start\n"+m.start.View()),
		m.card(focusEnd, "End\n"+m.end.View()),
		m.card(focusTypes, m.typesView()),
	)

	body := header + "\n" + filters + "\n" + m.kpiView() + "\n\n" +
		m.theme.Title.Render("Average Sale Price by Month") + "\n" + m.chartView() + "\n\n" +
		m.theme.Title.Render("Most Recent Sales") + "\n" + m.recentView()

	if m.status != "" {
		body += "\n" + m.theme.Status.Render(m.status)
	}
	help := m.theme.Help.Render("tab focus • enter apply date • space toggle • a all • n none • r reset • q quit")
	return wrap.Render(body + "\n" + help)
}

func (m model) card(f focus, content string) string {
	if m.focus == f {
		return m.theme.Focused.Render(content)
	}
	return m.theme.Card.Render(content)
}

func (m model) typesView() string {
	var b strings.Builder
	b.WriteString("Sale types")
	if len(m.options) == 0 {
		b.WriteString("\n(none)")
	}
	for i, o := range m.options {
		cursor := " "
		if m.focus == focusTypes && i == m.cursor {
			cursor = ">"
		}
		check := "[ ]"
		if m.selected[o] {
			check = "[x]"
		}
		fmt.Fprintf(&b, "\n%s %s %s", cursor, check, o)
	}
	return b.String()
}

func (m model) kpiView() string {
	kpi := func(label, value string) string {
		return m.theme.Card.Render(m.theme.KPILabel.Render(label) + "\n" + m.theme.KPI.Render(value))
	}
	s := m.view.Summary
	return lipgloss.JoinHorizontal(lipgloss.Top,
		kpi("Total Sales", services.FormatCount(s.TotalSales)),
		kpi("Total Volume", services.FormatDollars(s.TotalVolume)),
		kpi("Avg. Sale Price", services.FormatDollars(s.AveragePrice)),
	)
}

func (m model) chartView() string {
	if len(m.view.Monthly) == 0 {
		return m.theme.Help.Render(emptyMessage)
	}
	width := m.width - 4
	if width < 12 {
		width = 60
	}
	points := m.view.Monthly
	if len(points) > width {
		points = points[len(points)-width:]
	}

	lo, hi := points[0].AveragePrice, points[0].AveragePrice
	for _, p := range points {
		lo = min(lo, p.AveragePrice)
		hi = max(hi, p.AveragePrice)
	}

	axis := points[0].Month.String()
	if len(points) > 1 {
		last := points[len(points)-1].Month.String()
		if gap := len(points) - len(axis) - len(last); gap > 0 {
			axis += strings.Repeat(" ", gap) + last
		} else {
			axis += " .. " + last
		}
	}
	legend := fmt.Sprintf("low %s  high %s", services.FormatDollars(lo), services.FormatDollars(hi))

	return m.theme.Chart.Render(sparkline(points)) + "\n" +
		m.theme.Help.Render(axis) + "\n" + m.theme.Help.Render(legend)
}

func (m model) recentView() string {
	if len(m.view.Recent) == 0 {
		return m.theme.Help.Render(emptyMessage)
	}
	return m.recent.View()
}
