package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/timelog"
	"github.com/sadopc/timelog/internal/tracker"
)

type pickStage int

const (
	pickNone pickStage = iota
	pickProject
	pickDiscipline
)

type dashboardModel struct {
	tracker  *tracker.Tracker
	timer    timerModel
	employee *timelog.Employee
	width    int
	height   int

	discipline timelog.Discipline // preselected in the picker

	todaySummary []store.DailySummary
	recent       []store.Activity
	projects     []*timelog.Project

	// Start picker: project first, then discipline
	picking      pickStage
	pickerCursor int
	picked       *timelog.Project
}

func newDashboardModel(t *tracker.Tracker, d timelog.Discipline) dashboardModel {
	return dashboardModel{
		tracker:    t,
		timer:      newTimerModel(t),
		discipline: d,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *dashboardModel) setEmployee(e *timelog.Employee) {
	d.employee = e
	d.picking = pickNone
	if e == nil {
		d.timer.bind("")
		return
	}
	d.timer.bind(e.ID)
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	todaySummary []store.DailySummary
	recent       []store.Activity
	projects     []*timelog.Project
}

func (d dashboardModel) loadData() tea.Cmd {
	var employeeID string
	if d.employee != nil {
		employeeID = d.employee.ID
	}
	return func() tea.Msg {
		now := time.Now().UTC()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		summary, _ := d.tracker.DailySummary("", dayStart, dayStart.AddDate(0, 0, 1))

		var recent []store.Activity
		if employeeID != "" {
			recent, _ = d.tracker.History(store.ActivityFilter{EmployeeID: employeeID, Limit: 5})
		}

		return dashboardDataMsg{
			todaySummary: summary,
			recent:       recent,
			projects:     d.tracker.Projects(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todaySummary = msg.todaySummary
		d.recent = msg.recent
		d.projects = msg.projects
		d.timer.sync()
		return d, nil

	case tea.KeyMsg:
		if d.picking != pickNone {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.employee == nil {
				return d, nil
			}
			if d.timer.running() {
				return d, statusCmd("Already tracking. Press x to stop first.")
			}
			if len(d.projects) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No projects yet. Press 2 to go to Projects and create one.", isError: true}
				}
			}
			if len(d.projects) == 1 {
				d.chooseProject(d.projects[0])
				return d, nil
			}
			d.picking = pickProject
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()
		}
	}
	return d, nil
}

func (d *dashboardModel) chooseProject(p *timelog.Project) {
	d.picked = p
	d.picking = pickDiscipline
	d.pickerCursor = max(0, slices.Index(timelog.Disciplines, d.discipline))
}

func (d dashboardModel) pickerLen() int {
	if d.picking == pickProject {
		return len(d.projects)
	}
	return len(timelog.Disciplines)
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < d.pickerLen()-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		if d.picking == pickProject {
			d.chooseProject(d.projects[d.pickerCursor])
			return d, nil
		}
		disc := timelog.Disciplines[d.pickerCursor]
		d.picking = pickNone
		return d.startTimer(d.picked.Code, disc)
	case key.Matches(msg, keys.Back):
		d.picking = pickNone
	}
	return d, nil
}

func (d dashboardModel) startTimer(projectCode string, disc timelog.Discipline) (dashboardModel, tea.Cmd) {
	a, err := d.timer.start(projectCode, disc)
	if err != nil {
		return d, errorCmd(err)
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return activityStartedMsg{activity: a} },
	)
}

func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	if !d.timer.running() {
		return d, nil
	}
	a, err := d.timer.stop()
	if a == nil {
		if err != nil {
			return d, errorCmd(err)
		}
		return d, tea.Batch(d.loadData(), statusCmd("Already stopped in another session."))
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return activityStoppedMsg{activity: a, err: err} },
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	summaryPanel := d.renderSummaryPanel(contentWidth)

	var bottomPanel string
	switch d.picking {
	case pickProject:
		bottomPanel = d.renderProjectPicker(contentWidth)
	case pickDiscipline:
		bottomPanel = d.renderDisciplinePicker(contentWidth)
	default:
		bottomPanel = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, summaryPanel, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	who := ""
	if d.employee != nil {
		who = mutedStyle.Render(d.employee.Name)
	}

	if a := d.timer.activity; a != nil {
		timeDisplay := timerRunningStyle.Width(w - 6).Render(formatDuration(d.timer.currentElapsed()))
		indicator := successStyle.Render("●  RUNNING")
		projectLine := highlightStyle.Render(a.Project.Name) +
			mutedStyle.Render(" / ") + disciplineStyle(a.Discipline).Render(a.Discipline.String())
		wage := mutedStyle.Render(fmt.Sprintf("%.2f/h since %s", a.Employee.BaseRate, a.Start.Local().Format("15:04")))

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			projectLine,
			wage,
			who,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  IDLE"),
		mutedStyle.Render("Press s to start tracking"),
		who,
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	var hours, wage float64
	for _, s := range d.todaySummary {
		hours += s.TotalHours
		wage += s.TotalWage
	}
	title := titleStyle.Render("Today")
	header := fmt.Sprintf("%s  %s  %s", title, highlightStyle.Render(formatHours(hours)), mutedStyle.Render("wages "+formatWage(wage)))

	if len(d.todaySummary) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No activities today"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	for i, s := range d.todaySummary {
		dot := lipgloss.NewStyle().Foreground(seriesColors[i%len(seriesColors)]).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-20s %s  %8s  (%d activities)",
			dot,
			s.EmployeeName,
			formatHours(s.TotalHours),
			formatWage(s.TotalWage),
			s.EntryCount,
		))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Activities")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No activities yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, a := range d.recent {
		dur := formatHours(a.Hours)
		status := "✓"
		if a.EndTime == nil {
			status = "●"
			dur = "running"
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %-16s %-12s %s",
			status, a.StartTime.Local().Format("01-02 15:04"), a.ProjectName, a.Discipline, dur))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderProjectPicker(w int) string {
	rows := []string{titleStyle.Render("Select Project")}
	for i, p := range d.projects {
		rows = append(rows, pickerRow(i == d.pickerCursor, fmt.Sprintf("%s  %s", p.Code, p.Name)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: select  esc: cancel"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderDisciplinePicker(w int) string {
	rows := []string{titleStyle.Render("Discipline on " + d.picked.Name)}
	for i, disc := range timelog.Disciplines {
		label := disciplineStyle(disc).Render("●") + " " + disc.String()
		if h, ok := d.picked.BudgetedHours(disc); ok {
			label += mutedStyle.Render(fmt.Sprintf("  (%dh budget)", h))
		}
		rows = append(rows, pickerRow(i == d.pickerCursor, label))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: start  esc: cancel"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func pickerRow(selected bool, label string) string {
	if selected {
		return selectedItemStyle.Render("> ") + label
	}
	return normalItemStyle.Render("  ") + label
}
