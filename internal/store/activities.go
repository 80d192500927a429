package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/timelog/internal/timelog"
)

var _ timelog.Recorder = (*Store)(nil)

// ErrAlreadyStopped is returned by Record when the activity row was closed
// already, e.g. by another session.
var ErrAlreadyStopped = errors.New("activity already stopped")

const activityColumns = `a.id, a.employee_id, e.name, a.project_code, p.name, a.discipline,
	a.start_time, a.end_time, a.hours, a.wage, a.created_at`

const activityFrom = `FROM activities a
	JOIN employees e ON e.id = a.employee_id
	JOIN projects p ON p.code = a.project_code`

// StartActivity stores a running activity so it survives the process. An
// employee has at most one running row; a second one fails with
// timelog.ErrActivityInProgress.
func (s *Store) StartActivity(a *timelog.Activity) (*Activity, error) {
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO activities (id, employee_id, project_code, discipline, start_time, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Employee.ID, a.Project.Code, string(a.Discipline), formatTime(a.Start), now,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("start activity: %w: %s", timelog.ErrActivityInProgress, a.Employee.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("start activity: %w", err)
	}
	return s.GetActivity(a.ID)
}

// Record stores a completed activity. A running row with the same id is
// closed; otherwise a new row is inserted. A row that is closed already is
// left alone and ErrAlreadyStopped is returned.
func (s *Store) Record(rec timelog.ActivityRecord) error {
	var end any
	if rec.End != nil {
		end = formatTime(*rec.End)
	}
	res, err := s.db.Exec(`
		INSERT INTO activities (id, employee_id, project_code, discipline, start_time, end_time, hours, wage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			end_time = excluded.end_time,
			hours    = excluded.hours,
			wage     = excluded.wage
		WHERE activities.end_time IS NULL`,
		rec.ID, rec.Employee.ID, rec.Project.Code, string(rec.Discipline),
		formatTime(rec.Start), end, rec.TotalHours, rec.Wage, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("record activity %s: %w", rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record activity %s: %w", rec.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("record activity %s: %w", rec.ID, ErrAlreadyStopped)
	}
	return nil
}

func (s *Store) GetActivity(id string) (*Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityColumns+` `+activityFrom+` WHERE a.id = ?`, id)
	a, err := scanActivity(row)
	if err != nil {
		return nil, fmt.Errorf("get activity %s: %w", id, err)
	}
	return a, nil
}

// RunningActivities returns every activity without an end time, oldest first.
func (s *Store) RunningActivities() ([]Activity, error) {
	rows, err := s.db.Query(`SELECT ` + activityColumns + ` ` + activityFrom +
		` WHERE a.end_time IS NULL ORDER BY a.start_time`)
	if err != nil {
		return nil, fmt.Errorf("running activities: %w", err)
	}
	return collectActivities(rows)
}

// RunningActivity returns the running activity of the employee, or nil.
func (s *Store) RunningActivity(employeeID string) (*Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityColumns+` `+activityFrom+
		` WHERE a.employee_id = ? AND a.end_time IS NULL`, employeeID)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("running activity of %s: %w", employeeID, err)
	}
	return a, nil
}

func (s *Store) ListActivities(f ActivityFilter) ([]Activity, error) {
	query := `SELECT ` + activityColumns + ` ` + activityFrom + ` WHERE 1=1`
	var args []any

	if f.EmployeeID != "" {
		query += ` AND a.employee_id = ?`
		args = append(args, f.EmployeeID)
	}
	if f.ProjectCode != "" {
		query += ` AND a.project_code = ?`
		args = append(args, f.ProjectCode)
	}
	if f.From != nil {
		query += ` AND a.start_time >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += ` AND a.start_time < ?`
		args = append(args, formatTime(*f.To))
	}
	if f.Completed {
		query += ` AND a.end_time IS NOT NULL`
	}
	query += ` ORDER BY a.start_time DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return collectActivities(rows)
}

// GetDailySummary aggregates completed activities per day and employee.
// An empty employeeID covers every employee.
func (s *Store) GetDailySummary(employeeID string, from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT date(a.start_time) AS day, a.employee_id, e.name,
		       COALESCE(SUM(a.hours), 0), COALESCE(SUM(a.wage), 0), COUNT(*)
		FROM activities a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.end_time IS NOT NULL
		  AND a.start_time >= ? AND a.start_time < ?
		  AND (? = '' OR a.employee_id = ?)
		GROUP BY day, a.employee_id
		ORDER BY day, e.name`,
		formatTime(from), formatTime(to), employeeID, employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var ds DailySummary
		if err := rows.Scan(&ds.Date, &ds.EmployeeID, &ds.EmployeeName, &ds.TotalHours, &ds.TotalWage, &ds.EntryCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(r rowScanner) (*Activity, error) {
	a := &Activity{}
	var startTime, createdAt string
	var endTime sql.NullString
	err := r.Scan(&a.ID, &a.EmployeeID, &a.EmployeeName, &a.ProjectCode, &a.ProjectName, &a.Discipline,
		&startTime, &endTime, &a.Hours, &a.Wage, &createdAt)
	if err != nil {
		return nil, err
	}
	a.StartTime = parseTime(startTime)
	if endTime.Valid {
		t := parseTime(endTime.String)
		a.EndTime = &t
	}
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

func collectActivities(rows *sql.Rows) ([]Activity, error) {
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}
