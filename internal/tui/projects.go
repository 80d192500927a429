package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/timelog"
	"github.com/sadopc/timelog/internal/tracker"
)

const dateLayout = "2006-01-02"

type projectsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	projects     []*timelog.Project
	usage        []store.BudgetUsage
	cursor       int
	viewingUsage bool // true = budget usage of the selected project

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName    *string
	formCode    *string
	formStart   *string
	formEnd     *string
	formBudgets map[timelog.Discipline]*string
}

func newProjectsModel(t *tracker.Tracker) projectsModel {
	name, code, start, end := "", "", "", ""
	budgets := make(map[timelog.Discipline]*string, len(timelog.Disciplines))
	for _, d := range timelog.Disciplines {
		budgets[d] = new(string)
	}
	return projectsModel{
		tracker:     t,
		formName:    &name,
		formCode:    &code,
		formStart:   &start,
		formEnd:     &end,
		formBudgets: budgets,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []*timelog.Project
}

type usageDataMsg struct {
	usage []store.BudgetUsage
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return projectsDataMsg{projects: p.tracker.Projects()}
	}
}

func (p projectsModel) refreshUsage() tea.Cmd {
	if p.cursor >= len(p.projects) {
		return nil
	}
	code := p.projects[p.cursor].Code
	return func() tea.Msg {
		usage, err := p.tracker.BudgetUsage(code)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return usageDataMsg{usage: usage}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case usageDataMsg:
		p.usage = msg.usage
		return p, nil

	case tea.KeyMsg:
		if p.viewingUsage {
			if key.Matches(msg, keys.Back) {
				p.viewingUsage = false
			}
			return p, nil
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingUsage = true
			p.usage = nil
			return p, p.refreshUsage()
		}
	case key.Matches(msg, keys.New):
		return p.showNewProjectForm()
	}
	return p, nil
}

func validDate(s string) error {
	if s == "" {
		return nil
	}
	_, err := store.ParseDate(s)
	if err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validHours(s string) error {
	if s == "" {
		return nil
	}
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 {
		return errors.New("whole hours, 0 or more")
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func (p projectsModel) showNewProjectForm() (projectsModel, tea.Cmd) {
	*p.formName = ""
	*p.formCode = ""
	*p.formStart = ""
	*p.formEnd = ""
	for _, v := range p.formBudgets {
		*v = ""
	}

	budgetFields := make([]huh.Field, 0, len(timelog.Disciplines))
	for _, d := range timelog.Disciplines {
		budgetFields = append(budgetFields,
			huh.NewInput().Title(d.String()+" budget (h)").Validate(validHours).Value(p.formBudgets[d]))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Validate(required("name")).Value(p.formName),
			huh.NewInput().Title("Code").Validate(required("code")).Value(p.formCode),
			huh.NewInput().Title("Start date").Placeholder(dateLayout).Validate(validDate).Value(p.formStart),
			huh.NewInput().Title("End date").Placeholder(dateLayout).Validate(validDate).Value(p.formEnd),
		),
		huh.NewGroup(budgetFields...),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

// buildProject turns the completed form into a project.
func (p projectsModel) buildProject() *timelog.Project {
	var opts []timelog.ProjectOption
	if *p.formStart != "" || *p.formEnd != "" {
		start, _ := store.ParseDate(*p.formStart)
		end, _ := store.ParseDate(*p.formEnd)
		opts = append(opts, timelog.WithSchedule(start, end))
	}
	for _, d := range timelog.Disciplines {
		if h, err := strconv.Atoi(*p.formBudgets[d]); err == nil {
			opts = append(opts, timelog.WithBudget(d, h))
		}
	}
	return timelog.NewProject(strings.TrimSpace(*p.formName), strings.TrimSpace(*p.formCode), opts...)
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		proj := p.buildProject()
		if err := p.tracker.RegisterProject(proj); err != nil {
			return p, errorCmd(err)
		}
		return p, tea.Batch(p.refresh(), statusCmd("Created project "+proj.Code))
	}

	return p, cmd
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Project"), "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingUsage {
		return p.renderUsageView()
	}
	return p.renderProjectList()
}

func scheduleLabel(proj *timelog.Project) string {
	if proj.StartDate.IsZero() && proj.EndDate.IsZero() {
		return "unscheduled"
	}
	label := func(t time.Time) string {
		if t.IsZero() {
			return "?"
		}
		return t.Format(dateLayout)
	}
	return label(proj.StartDate) + " → " + label(proj.EndDate)
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-8s %-24s %-25s %s", "Code", "Name", "Schedule", "Budget"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		total := 0
		for _, h := range proj.Budgets() {
			total += h
		}
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-8s %-24s %-25s %dh",
			cursor, proj.Code, proj.Name, scheduleLabel(proj), total)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: budget usage"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// usageBar draws booked against budgeted hours in width cells.
func usageBar(u store.BudgetUsage, width int) string {
	if u.BudgetedHours <= 0 {
		return mutedStyle.Render(strings.Repeat("·", width))
	}
	ratio := u.BookedHours / float64(u.BudgetedHours)
	filled := min(width, int(ratio*float64(width)+0.5))
	style := disciplineStyle(timelog.Discipline(u.Discipline))
	if ratio > 1 {
		style = errorStyle
	}
	return style.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func (p projectsModel) renderUsageView() string {
	w := p.width - 4
	proj := p.projects[p.cursor]
	title := titleStyle.Render(fmt.Sprintf("%s (%s) - Budget", proj.Name, proj.Code))

	if len(p.usage) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No budget and nothing booked yet."),
			"",
			mutedStyle.Render("  esc: back"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, mutedStyle.Render(scheduleLabel(proj)), "")
	for _, u := range p.usage {
		budget := "-"
		if u.BudgetedHours > 0 {
			budget = fmt.Sprintf("%dh", u.BudgetedHours)
		}
		rows = append(rows, fmt.Sprintf("  %-12s %s  %7.2fh / %s",
			u.Discipline, usageBar(u, 24), u.BookedHours, budget))
	}
	rows = append(rows, "", mutedStyle.Render("  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
