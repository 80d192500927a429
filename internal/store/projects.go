package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/timelog/internal/timelog"
)

func (s *Store) CreateProject(p *timelog.Project) (*Project, error) {
	now := formatTime(time.Now())

	var start, end any
	if !p.StartDate.IsZero() {
		start = p.StartDate.Format(dateLayout)
	}
	if !p.EndDate.IsZero() {
		end = p.EndDate.Format(dateLayout)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO projects (code, name, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.Code, p.Name, start, end, now,
	); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	for d, hours := range p.Budgets() {
		if _, err := tx.Exec(
			`INSERT INTO project_budgets (project_code, discipline, hours) VALUES (?, ?, ?)`,
			p.Code, string(d), hours,
		); err != nil {
			return nil, fmt.Errorf("insert budget %s: %w", d, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit project: %w", err)
	}
	return s.GetProject(p.Code)
}

func (s *Store) GetProject(code string) (*Project, error) {
	p := &Project{}
	var start, end sql.NullString
	var createdAt string
	err := s.db.QueryRow(
		`SELECT code, name, start_date, end_date, created_at FROM projects WHERE code = ?`, code,
	).Scan(&p.Code, &p.Name, &start, &end, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", code, err)
	}
	fillDates(p, start, end)
	p.CreatedAt = parseTime(createdAt)

	p.Budgets, err = s.budgets(code)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns projects in registration order.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(
		`SELECT code, name, start_date, end_date, created_at FROM projects ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var projects []Project
	for rows.Next() {
		var p Project
		var start, end sql.NullString
		var createdAt string
		if err := rows.Scan(&p.Code, &p.Name, &start, &end, &createdAt); err != nil {
			rows.Close()
			return nil, err
		}
		fillDates(&p, start, end)
		p.CreatedAt = parseTime(createdAt)
		projects = append(projects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Budgets are read after the cursor is closed: the pool has one connection.
	for i := range projects {
		projects[i].Budgets, err = s.budgets(projects[i].Code)
		if err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (s *Store) budgets(code string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT discipline, hours FROM project_budgets WHERE project_code = ?`, code,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets %s: %w", code, err)
	}
	defer rows.Close()

	budgets := make(map[string]int)
	for rows.Next() {
		var d string
		var h int
		if err := rows.Scan(&d, &h); err != nil {
			return nil, err
		}
		budgets[d] = h
	}
	return budgets, rows.Err()
}

// GetBudgetUsage returns booked versus budgeted hours for every discipline
// that has either a budget or completed activities on the project.
func (s *Store) GetBudgetUsage(code string) ([]BudgetUsage, error) {
	rows, err := s.db.Query(`
		SELECT d.discipline,
		       COALESCE(b.hours, 0),
		       COALESCE((SELECT SUM(a.hours) FROM activities a
		                 WHERE a.project_code = ? AND a.discipline = d.discipline
		                   AND a.end_time IS NOT NULL), 0)
		FROM (
			SELECT discipline FROM project_budgets WHERE project_code = ?
			UNION
			SELECT discipline FROM activities WHERE project_code = ? AND end_time IS NOT NULL
		) d
		LEFT JOIN project_budgets b ON b.project_code = ? AND b.discipline = d.discipline
		ORDER BY d.discipline`,
		code, code, code, code,
	)
	if err != nil {
		return nil, fmt.Errorf("budget usage %s: %w", code, err)
	}
	defer rows.Close()

	var usage []BudgetUsage
	for rows.Next() {
		var u BudgetUsage
		if err := rows.Scan(&u.Discipline, &u.BudgetedHours, &u.BookedHours); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

func fillDates(p *Project, start, end sql.NullString) {
	if start.Valid {
		if t, err := ParseDate(start.String); err == nil {
			p.StartDate = &t
		}
	}
	if end.Valid {
		if t, err := ParseDate(end.String); err == nil {
			p.EndDate = &t
		}
	}
}
