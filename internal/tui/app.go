package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timelog/internal/config"
	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/timelog"
	"github.com/sadopc/timelog/internal/tracker"
)

// Options configures the terminal UI.
type Options struct {
	DataDir string         // settings are saved and exports written here
	Config  *config.Config // nil means defaults
}

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	dataDir string
	width   int
	height  int

	employee *timelog.Employee // nil until logged in
	login    loginModel

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	projects  projectsModel
	employees employeesModel
	reports   reportsModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(t *tracker.Tracker, opts Options) App {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	h := help.New()
	h.ShowAll = false

	return App{
		tracker:    t,
		dataDir:    opts.DataDir,
		login:      newLoginModel(t),
		activeView: viewDashboard,
		dashboard:  newDashboardModel(t, cfg.Discipline()),
		projects:   newProjectsModel(t),
		employees:  newEmployeesModel(t),
		reports:    newReportsModel(t),
		settings:   newSettingsModel(cfg, opts.DataDir),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.login.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.employees.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tickMsg:
		// Nothing to compute; the timer reads the clock when rendering.
		return a, tickCmd()

	case loggedInMsg:
		return a.loggedIn(msg.employee)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case activityStartedMsg:
		act := msg.activity
		a.status = fmt.Sprintf("Started %s on %s", act.Discipline, act.Project.Name)
		a.statusErr = false
		return a, nil

	case activityStoppedMsg:
		act := msg.activity
		if msg.err != nil {
			a.status = fmt.Sprintf("Stopped but not saved: %v", msg.err)
			a.statusErr = true
			return a, nil
		}
		a.status = fmt.Sprintf("Stopped: %s, wage %s", formatHours(act.TotalHours()), formatWage(act.Wage()))
		a.statusErr = false
		return a, nil

	case settingsSavedMsg:
		a.dashboard.discipline = msg.discipline
		return a, nil

	case exportDoneMsg:
		a.status = fmt.Sprintf("Exported %d activities to %s", msg.count, msg.path)
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.employee == nil {
			break
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a.logout()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewProjects
			return a, a.projects.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewEmployees
			return a, a.employees.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}
	}

	if a.employee == nil {
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) loggedIn(e *timelog.Employee) (tea.Model, tea.Cmd) {
	a.employee = e
	a.activeView = viewDashboard
	a.dashboard.setEmployee(e)
	a.status = "Logged in as " + e.Name
	a.statusErr = false
	return a, a.dashboard.loadData()
}

// logout returns to the login form. A running activity keeps running.
func (a App) logout() (tea.Model, tea.Cmd) {
	a.employee = nil
	a.dashboard.setEmployee(nil)
	a.login.failed = false
	a.login.reset()
	a.status = ""
	return a, a.login.Init()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewEmployees:
		a.employees, cmd = a.employees.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewProjects:
		return a.projects.formActive
	case viewEmployees:
		return a.employees.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewProjects:
		return a.projects.refresh()
	case viewEmployees:
		return a.employees.refresh()
	case viewReports:
		return a.reports.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.employee == nil {
		body := lipgloss.Place(a.width, a.height-2, lipgloss.Center, lipgloss.Center, a.login.view())
		return lipgloss.JoinVertical(lipgloss.Left, a.renderStatusLine(), body)
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewProjects:
		content = a.projects.view()
	case viewEmployees:
		content = a.employees.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timelog")
	if a.employee != nil {
		title += mutedStyle.Render("  " + a.employee.Name)
	}
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderStatusLine() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return errorStyle.Render(" " + a.status)
	}
	return mutedStyle.Render(" " + a.status)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	timerInfo := ""
	if a.dashboard.isRunning() {
		timerInfo = successStyle.Render(" ● " + formatDuration(a.dashboard.elapsed()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + a.renderStatusLine()

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"csv", "json"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format string) tea.Cmd {
	path := filepath.Join(a.dataDir, fmt.Sprintf("timelog-export-%s.%s", time.Now().Format(dateLayout), format))
	return func() tea.Msg {
		n, err := a.tracker.Export(format, path, store.ActivityFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path, count: n}
	}
}
