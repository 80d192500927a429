package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/timelog"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}

func renderEmployeeTable(employees []*timelog.Employee) string {
	if len(employees) == 0 {
		return "No employees found."
	}
	rows := make([][]string, len(employees))
	for i, e := range employees {
		rows[i] = []string{e.ID, e.Name, e.Login, money(e.BaseRate), money(e.OvertimeRate), state(e, time.Now())}
	}
	return renderTable([]string{"ID", "Name", "Login", "Rate", "Overtime", "Status"}, rows)
}

func renderProjectTable(projects []*timelog.Project) string {
	if len(projects) == 0 {
		return "No projects found."
	}
	rows := make([][]string, len(projects))
	for i, p := range projects {
		total := 0
		for _, h := range p.Budgets() {
			total += h
		}
		rows[i] = []string{p.Code, p.Name, date(p.StartDate), date(p.EndDate), strconv.Itoa(total)}
	}
	return renderTable([]string{"Code", "Name", "Start", "End", "Budget (h)"}, rows)
}

func renderUsageTable(usage []store.BudgetUsage) string {
	if len(usage) == 0 {
		return "No budget or bookings yet."
	}
	rows := make([][]string, len(usage))
	for i, u := range usage {
		left := "-"
		if u.BudgetedHours > 0 {
			left = fmt.Sprintf("%.2f", float64(u.BudgetedHours)-u.BookedHours)
		}
		rows[i] = []string{u.Discipline, strconv.Itoa(u.BudgetedHours), fmt.Sprintf("%.2f", u.BookedHours), left}
	}
	return renderTable([]string{"Discipline", "Budget (h)", "Booked (h)", "Left (h)"}, rows)
}

func renderActivityTable(activities []store.Activity) string {
	if len(activities) == 0 {
		return "No activities found."
	}
	rows := make([][]string, len(activities))
	for i, a := range activities {
		end := "running"
		if a.EndTime != nil {
			end = a.EndTime.Local().Format("2006-01-02 15:04:05")
		}
		rows[i] = []string{
			a.StartTime.Local().Format("2006-01-02 15:04:05"),
			end,
			a.EmployeeName,
			a.ProjectCode,
			a.Discipline,
			fmt.Sprintf("%.4f", a.Hours),
			money(a.Wage),
		}
	}
	return renderTable([]string{"Start", "End", "Employee", "Project", "Discipline", "Hours", "Wage"}, rows)
}

func state(e *timelog.Employee, now time.Time) string {
	a := e.Current()
	if a == nil {
		return "idle"
	}
	return fmt.Sprintf("%s on %s since %s", a.Discipline, a.Project.Code, humanize.RelTime(a.Start, now, "ago", "from now"))
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}
