package timelog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const millisPerHour = 3_600_000

// Activity is one timed work session of an employee on a project.
type Activity struct {
	ID         string
	Employee   *Employee
	Project    *Project
	Discipline Discipline
	Start      time.Time
	End        time.Time // zero while running
}

func newActivity(e *Employee, p *Project, d Discipline) *Activity {
	return &Activity{
		ID:         uuid.NewString(),
		Employee:   e,
		Project:    p,
		Discipline: d,
	}
}

// Running reports whether the activity has no end yet.
func (a *Activity) Running() bool {
	return !a.Start.IsZero() && a.End.IsZero()
}

// TotalHours is the elapsed time in fractional hours, computed from whole
// milliseconds. It is 0 while either timestamp is unset.
func (a *Activity) TotalHours() float64 {
	if a.Start.IsZero() || a.End.IsZero() {
		return 0
	}
	ms := a.End.Sub(a.Start).Milliseconds()
	return float64(ms) / millisPerHour
}

// Wage is TotalHours at the employee's base rate. Overtime is not applied.
func (a *Activity) Wage() float64 {
	return a.TotalHours() * a.Employee.BaseRate
}

// Record returns the flattened, persistable form of the activity.
func (a *Activity) Record() ActivityRecord {
	rec := ActivityRecord{
		ID: a.ID,
		Employee: EmployeeSnapshot{
			Name:         a.Employee.Name,
			ID:           a.Employee.ID,
			Login:        a.Employee.Login,
			BaseRate:     a.Employee.BaseRate,
			OvertimeRate: a.Employee.OvertimeRate,
		},
		Project: ProjectSnapshot{
			Name:          a.Project.Name,
			Code:          a.Project.Code,
			BudgetedHours: a.Project.Budgets(),
		},
		Discipline: a.Discipline,
		Start:      a.Start,
		TotalHours: a.TotalHours(),
		Wage:       a.Wage(),
	}
	if !a.Project.StartDate.IsZero() {
		t := a.Project.StartDate
		rec.Project.StartDate = &t
	}
	if !a.Project.EndDate.IsZero() {
		t := a.Project.EndDate
		rec.Project.EndDate = &t
	}
	if !a.End.IsZero() {
		t := a.End
		rec.End = &t
	}
	return rec
}

// Persist hands the activity's record to rec.
func (a *Activity) Persist(rec Recorder) error {
	if rec == nil {
		rec = NopRecorder{}
	}
	if err := rec.Record(a.Record()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersist, a.ID, err)
	}
	return nil
}
