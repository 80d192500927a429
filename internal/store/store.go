package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const currentVersion = 2

// timeLayout is fixed-width UTC with milliseconds so stored timestamps sort
// lexically and keep the precision wages are computed from.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// dateLayout is used for project start and end dates.
const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS employees (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		login          TEXT NOT NULL,
		base_rate      REAL NOT NULL DEFAULT 0,
		overtime_rate  REAL NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	);

	CREATE TABLE IF NOT EXISTS projects (
		code        TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		start_date  TEXT,
		end_date    TEXT,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	);

	CREATE TABLE IF NOT EXISTS project_budgets (
		project_code  TEXT NOT NULL REFERENCES projects(code),
		discipline    TEXT NOT NULL,
		hours         INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_code, discipline)
	);

	CREATE TABLE IF NOT EXISTS activities (
		id            TEXT PRIMARY KEY,
		employee_id   TEXT NOT NULL REFERENCES employees(id),
		project_code  TEXT NOT NULL REFERENCES projects(code),
		discipline    TEXT NOT NULL,
		start_time    TEXT NOT NULL,
		end_time      TEXT,
		hours         REAL NOT NULL DEFAULT 0,
		wage          REAL NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_activities_employee ON activities(employee_id);
	CREATE INDEX IF NOT EXISTS idx_activities_project  ON activities(project_code);
	CREATE INDEX IF NOT EXISTS idx_activities_start    ON activities(start_time);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// migrateV2 allows at most one running activity per employee. Older
// duplicates are closed at their own start time, keeping the newest.
func (s *Store) migrateV2() error {
	const ddl = `
	UPDATE activities SET end_time = start_time, hours = 0, wage = 0
	WHERE end_time IS NULL AND EXISTS (
		SELECT 1 FROM activities b
		WHERE b.employee_id = activities.employee_id AND b.end_time IS NULL
		  AND (b.start_time > activities.start_time
		       OR (b.start_time = activities.start_time AND b.id > activities.id))
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_activities_running
		ON activities(employee_id) WHERE end_time IS NULL;
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDataDir returns ~/.config/timelog
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "timelog"), nil
}

// DBPath returns the database file inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "timelog.db")
}

// ParseDate reads a YYYY-MM-DD date as midnight UTC, the form project
// dates are stored and reloaded in.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}
