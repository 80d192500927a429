package store

import (
	"fmt"
	"time"

	"github.com/sadopc/timelog/internal/timelog"
)

func (s *Store) CreateEmployee(e *timelog.Employee) (*Employee, error) {
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO employees (id, name, login, base_rate, overtime_rate, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Login, e.BaseRate, e.OvertimeRate, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	return s.GetEmployee(e.ID)
}

func (s *Store) GetEmployee(id string) (*Employee, error) {
	e := &Employee{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, name, login, base_rate, overtime_rate, created_at FROM employees WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.Login, &e.BaseRate, &e.OvertimeRate, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// ListEmployees returns employees in registration order.
func (s *Store) ListEmployees() ([]Employee, error) {
	rows, err := s.db.Query(
		`SELECT id, name, login, base_rate, overtime_rate, created_at FROM employees ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &e.Login, &e.BaseRate, &e.OvertimeRate, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
