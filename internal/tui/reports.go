package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/tracker"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	mode      reportMode
	summaries []store.DailySummary
	colors    map[string]lipgloss.Color // employee id -> series color
	offset    int                       // weeks or 7-day blocks back from today (0 = current)
	now       func() time.Time

	chart barchart.Model
}

func newReportsModel(t *tracker.Tracker) reportsModel {
	return reportsModel{
		tracker: t,
		colors:  make(map[string]lipgloss.Color),
		now:     time.Now,
		chart:   barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	summaries []store.DailySummary
	colors    map[string]lipgloss.Color
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		summaries, _ := r.tracker.DailySummary("", from, to)

		colors := make(map[string]lipgloss.Color)
		for i, e := range r.tracker.Employees() {
			colors[e.ID] = seriesColors[i%len(seriesColors)]
		}
		return reportsDataMsg{summaries: summaries, colors: colors}
	}
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch r.mode {
	case reportWeekly:
		// Start of current week (Monday)
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday))
		startOfWeek = startOfWeek.AddDate(0, 0, -7*r.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		// Daily: last 7 days
		end := today.AddDate(0, 0, 1-7*r.offset)
		start := end.AddDate(0, 0, -7)
		return start, end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.summaries = msg.summaries
		r.colors = msg.colors
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Enter):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r reportsModel) color(employeeID string) lipgloss.Color {
	if c, ok := r.colors[employeeID]; ok {
		return c
	}
	return colorMuted
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	// One bar per day, stacked by employee
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(dateLayout)

		var values []barchart.BarValue
		for _, s := range r.summaries {
			if s.Date == dateStr {
				values = append(values, barchart.BarValue{
					Name:  s.EmployeeName,
					Value: s.TotalHours,
					Style: lipgloss.NewStyle().Foreground(r.color(s.EmployeeID)),
				})
			}
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  enter: daily/weekly")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderLegend(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.summaries) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-20s %10s %10s %6s", "Date", "Employee", "Hours", "Wages", "Count")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 62))))

	var hours, wages float64
	for _, s := range r.summaries {
		dot := lipgloss.NewStyle().Foreground(r.color(s.EmployeeID)).Render("●")
		rows = append(rows, fmt.Sprintf("  %-12s %s %-18s %10s %10s %6d",
			s.Date, dot, s.EmployeeName, formatHours(s.TotalHours), formatWage(s.TotalWage), s.EntryCount,
		))
		hours += s.TotalHours
		wages += s.TotalWage
	}
	rows = append(rows, titleStyle.Render(fmt.Sprintf("  %-12s %-20s %10s %10s", "Total", "", formatHours(hours), formatWage(wages))))

	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, s := range r.summaries {
		if seen[s.EmployeeID] {
			continue
		}
		seen[s.EmployeeID] = true
		dot := lipgloss.NewStyle().Foreground(r.color(s.EmployeeID)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, s.EmployeeName))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
