package timelog

import (
	"maps"
	"time"
)

// Project is a unit of work employees book time against.
type Project struct {
	Name      string
	Code      string
	StartDate time.Time // zero when unscheduled
	EndDate   time.Time

	budgets map[Discipline]int
}

// ProjectOption configures a Project at construction.
type ProjectOption func(*Project)

// WithSchedule sets the planned start and end dates.
func WithSchedule(start, end time.Time) ProjectOption {
	return func(p *Project) {
		p.StartDate = start
		p.EndDate = end
	}
}

// WithBudget sets the budgeted hours for one discipline.
func WithBudget(d Discipline, hours int) ProjectOption {
	return func(p *Project) {
		p.budgets[d] = hours
	}
}

func NewProject(name, code string, opts ...ProjectOption) *Project {
	p := &Project{
		Name:    name,
		Code:    code,
		budgets: make(map[Discipline]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BudgetedHours returns the hours budgeted for d, if any.
func (p *Project) BudgetedHours(d Discipline) (int, bool) {
	h, ok := p.budgets[d]
	return h, ok
}

// Budgets returns a copy of the per-discipline budget.
func (p *Project) Budgets() map[Discipline]int {
	out := make(map[Discipline]int, len(p.budgets))
	maps.Copy(out, p.budgets)
	return out
}

// IsAssignedTo reports whether e may book time on p. Every employee is
// assigned to every project for now; real assignment rules go here.
func (p *Project) IsAssignedTo(e *Employee) bool {
	return true
}
