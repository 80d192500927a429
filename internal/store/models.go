package store

import "time"

type Employee struct {
	ID           string
	Name         string
	Login        string
	BaseRate     float64
	OvertimeRate float64
	CreatedAt    time.Time
}

type Project struct {
	Code      string
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	Budgets   map[string]int // discipline -> hours
	CreatedAt time.Time
}

type Activity struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	ProjectCode  string
	ProjectName  string
	Discipline   string
	StartTime    time.Time
	EndTime      *time.Time
	Hours        float64
	Wage         float64
	CreatedAt    time.Time
}

// ActivityFilter is used to filter activities in queries.
type ActivityFilter struct {
	EmployeeID  string
	ProjectCode string
	From        *time.Time
	To          *time.Time
	Completed   bool // only activities with an end time
	Limit       int
}

// DailySummary represents aggregated time per employee per day.
type DailySummary struct {
	Date         string
	EmployeeID   string
	EmployeeName string
	TotalHours   float64
	TotalWage    float64
	EntryCount   int
}

// BudgetUsage compares booked hours with the budget of one discipline.
type BudgetUsage struct {
	Discipline    string
	BudgetedHours int
	BookedHours   float64
}
