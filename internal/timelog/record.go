package timelog

import "time"

// ActivityRecord is the persisted shape of a completed activity. Employee
// and project are snapshots, never the live objects.
type ActivityRecord struct {
	ID         string           `json:"id"`
	Employee   EmployeeSnapshot `json:"employee"`
	Project    ProjectSnapshot  `json:"project"`
	Discipline Discipline       `json:"discipline"`
	Start      time.Time        `json:"start"`
	End        *time.Time       `json:"end,omitempty"`
	TotalHours float64          `json:"total_hours"`
	Wage       float64          `json:"wage"`
}

type EmployeeSnapshot struct {
	Name         string  `json:"name"`
	ID           string  `json:"id"`
	Login        string  `json:"login"`
	BaseRate     float64 `json:"base_rate"`
	OvertimeRate float64 `json:"overtime_rate"`
}

type ProjectSnapshot struct {
	Name          string             `json:"name"`
	Code          string             `json:"code"`
	StartDate     *time.Time         `json:"start_date,omitempty"`
	EndDate       *time.Time         `json:"end_date,omitempty"`
	BudgetedHours map[Discipline]int `json:"budgeted_hours"`
}

// Recorder persists completed activities.
type Recorder interface {
	Record(rec ActivityRecord) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(rec ActivityRecord) error

func (f RecorderFunc) Record(rec ActivityRecord) error { return f(rec) }

// NopRecorder drops every record.
type NopRecorder struct{}

func (NopRecorder) Record(ActivityRecord) error { return nil }

type chainRecorder []Recorder

// ChainRecorder writes each record to the recorders in order and stops at
// the first failure, so later recorders only see records the earlier ones
// accepted.
func ChainRecorder(recorders ...Recorder) Recorder {
	return chainRecorder(recorders)
}

func (c chainRecorder) Record(rec ActivityRecord) error {
	for _, r := range c {
		if err := r.Record(rec); err != nil {
			return err
		}
	}
	return nil
}
