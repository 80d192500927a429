package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timelog/internal/tracker"
)

// loginModel is shown until an employee logs in. With an empty roster it
// asks for the first employee instead.
type loginModel struct {
	tracker *tracker.Tracker
	width   int

	form     *huh.Form
	register bool
	login    *string
	id       *string
	fields   employeeForm
	failed   bool
}

func newLoginModel(t *tracker.Tracker) loginModel {
	m := loginModel{
		tracker: t,
		login:   new(string),
		id:      new(string),
		fields:  newEmployeeForm(),
	}
	m.reset()
	return m
}

func (m *loginModel) setSize(w, _ int) {
	m.width = w
}

// reset prepares a fresh form for the next login.
func (m *loginModel) reset() {
	m.register = len(m.tracker.Employees()) == 0
	if m.register {
		m.form = m.fields.build()
		return
	}
	*m.login, *m.id = "", ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Login").Value(m.login),
			huh.NewInput().Title("Employee id").EchoMode(huh.EchoModePassword).Value(m.id),
		),
	).WithShowHelp(true)
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.register {
		e := m.fields.employee()
		if err := m.tracker.RegisterEmployee(e); err != nil {
			m.reset()
			return m, tea.Batch(m.form.Init(), errorCmd(err))
		}
		return m, func() tea.Msg { return loggedInMsg{employee: e} }
	}

	e, err := m.tracker.Login(*m.login, *m.id)
	if err != nil {
		m.failed = true
		m.reset()
		return m, m.form.Init()
	}
	m.failed = false
	return m, func() tea.Msg { return loggedInMsg{employee: e} }
}

func (m loginModel) view() string {
	title := titleStyle.Render("Log in")
	hint := mutedStyle.Render("Your employee id is your password.")
	if m.register {
		title = titleStyle.Render("Welcome to timelog")
		hint = mutedStyle.Render("Register the first employee to get started.")
	}

	parts := []string{title, hint, ""}
	if m.failed {
		parts = append(parts, errorStyle.Render("Unknown login or id."), "")
	}
	parts = append(parts, m.form.View(), "", mutedStyle.Render("ctrl+c: quit"))

	w := min(m.width-4, 60)
	return activePanelStyle.Width(max(w, 20)).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
