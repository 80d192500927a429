package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/timelog/internal/timelog"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewEmployees
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Projects", "Employees", "Reports", "Settings"}

// --- Messages ---

type loggedInMsg struct {
	employee *timelog.Employee
}

type activityStartedMsg struct {
	activity *timelog.Activity
}

type activityStoppedMsg struct {
	activity *timelog.Activity
	err      error // set when the activity ended but was not saved
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path  string
	count int
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatHours renders fractional hours as a clock duration.
func formatHours(hours float64) string {
	return formatDuration(time.Duration(hours * float64(time.Hour)).Round(time.Second))
}

func formatWage(w float64) string {
	return fmt.Sprintf("%.2f", w)
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}
