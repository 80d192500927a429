package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timelog/internal/timelog"
	"github.com/sadopc/timelog/internal/tracker"
)

// employeeForm holds the registration fields. Shared by the employees view
// and the first-run screen.
type employeeForm struct {
	name     *string
	id       *string
	login    *string
	rate     *string
	overtime *string
}

func newEmployeeForm() employeeForm {
	return employeeForm{
		name:     new(string),
		id:       new(string),
		login:    new(string),
		rate:     new(string),
		overtime: new(string),
	}
}

func validRate(s string) error {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || r < 0 {
		return errors.New("a rate of 0 or more")
	}
	return nil
}

func (f employeeForm) build() *huh.Form {
	*f.name, *f.id, *f.login, *f.rate, *f.overtime = "", "", "", "", ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Validate(required("name")).Value(f.name),
			huh.NewInput().Title("Employee id").Validate(required("id")).Value(f.id),
			huh.NewInput().Title("Login").Validate(required("login")).Value(f.login),
			huh.NewInput().Title("Hourly rate").Validate(validRate).Value(f.rate),
			huh.NewInput().Title("Overtime rate").Validate(validRate).Value(f.overtime),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (f employeeForm) employee() *timelog.Employee {
	rate, _ := strconv.ParseFloat(strings.TrimSpace(*f.rate), 64)
	overtime, _ := strconv.ParseFloat(strings.TrimSpace(*f.overtime), 64)
	return timelog.NewEmployee(
		strings.TrimSpace(*f.name),
		strings.TrimSpace(*f.id),
		strings.TrimSpace(*f.login),
		rate, overtime,
	)
}

type employeesModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	employees []*timelog.Employee
	cursor    int

	formActive bool
	form       *huh.Form
	fields     employeeForm
}

func newEmployeesModel(t *tracker.Tracker) employeesModel {
	return employeesModel{
		tracker: t,
		fields:  newEmployeeForm(),
	}
}

func (m *employeesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type employeesDataMsg struct {
	employees []*timelog.Employee
}

func (m employeesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return employeesDataMsg{employees: m.tracker.Employees()}
	}
}

func (m employeesModel) update(msg tea.Msg) (employeesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case employeesDataMsg:
		m.employees = msg.employees
		if m.cursor >= len(m.employees) {
			m.cursor = max(0, len(m.employees)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.employees)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			m.form = m.fields.build()
			m.formActive = true
			return m, m.form.Init()
		}
	}
	return m, nil
}

func (m employeesModel) updateForm(msg tea.Msg) (employeesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		e := m.fields.employee()
		if err := m.tracker.RegisterEmployee(e); err != nil {
			return m, errorCmd(err)
		}
		return m, tea.Batch(m.refresh(), statusCmd("Registered "+e.Name))
	}
	return m, cmd
}

func (m employeesModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Employee"), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Employees")
	if len(m.employees) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No employees yet. Press n to register one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-10s %-20s %-14s %8s  %s", "ID", "Name", "Login", "Rate", "Status")))

	for i, e := range m.employees {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := mutedStyle.Render("idle")
		if a := e.Current(); a != nil {
			status = successStyle.Render("● ") + disciplineStyle(a.Discipline).Render(a.Discipline.String()) +
				mutedStyle.Render(" on "+a.Project.Code)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-10s %-20s %-14s %8.2f  ",
			cursor, e.ID, e.Name, e.Login, e.BaseRate))+status)
	}

	rows = append(rows, "", mutedStyle.Render("  n: register"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
