// Package tracker ties the in-memory registry to the SQLite store and the
// per-employee record files. The CLI and the terminal UI only talk to it.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sadopc/timelog/internal/export"
	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/timelog"
)

// ErrUnknownFormat is returned by Export for anything but csv or json.
var ErrUnknownFormat = errors.New("unknown export format")

type Options struct {
	RecordDir string // where <name>_activite.json files go
	Logger    *zap.Logger
	Clock     timelog.Clock
}

type Tracker struct {
	mu      sync.Mutex // pairs registry and store updates
	store   *store.Store
	reg     *timelog.Registry
	records export.RecordFile
	log     *zap.Logger
}

// Open opens the database at dbPath and loads it.
func Open(dbPath string, opts Options) (*Tracker, error) {
	s, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}
	t, err := New(s, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	return t, nil
}

// New loads the roster and every running activity of s into a fresh
// registry. The tracker owns s from then on.
func New(s *store.Store, opts Options) (*Tracker, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = timelog.SystemClock{}
	}
	records := export.RecordFile{Dir: opts.RecordDir}

	t := &Tracker{
		store:   s,
		records: records,
		log:     log,
		reg: timelog.NewRegistry(
			timelog.WithClock(clock),
			// The file is only written once the database accepted the record.
			timelog.WithRecorder(timelog.ChainRecorder(s, records)),
			timelog.WithLogger(log),
		),
	}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tracker) load() error {
	employees, err := t.store.ListEmployees()
	if err != nil {
		return err
	}
	for _, e := range employees {
		emp := timelog.NewEmployee(e.Name, e.ID, e.Login, e.BaseRate, e.OvertimeRate)
		if err := t.reg.AddEmployee(emp); err != nil {
			return err
		}
	}

	projects, err := t.store.ListProjects()
	if err != nil {
		return err
	}
	for _, p := range projects {
		if err := t.reg.AddProject(t.toProject(p)); err != nil {
			return err
		}
	}

	running, err := t.store.RunningActivities()
	if err != nil {
		return err
	}
	var skipped error
	for _, a := range running {
		if err := t.resume(a); err != nil {
			skipped = multierr.Append(skipped, fmt.Errorf("resume activity %s: %w", a.ID, err))
		}
	}
	if skipped != nil {
		t.log.Warn("running activities skipped",
			zap.Int("count", len(multierr.Errors(skipped))),
			zap.Error(skipped),
		)
	}

	t.log.Debug("tracker loaded",
		zap.Int("employees", len(employees)),
		zap.Int("projects", len(projects)),
		zap.Int("running", len(running)),
	)
	return nil
}

func (t *Tracker) toProject(p store.Project) *timelog.Project {
	var opts []timelog.ProjectOption
	if p.StartDate != nil || p.EndDate != nil {
		var start, end time.Time
		if p.StartDate != nil {
			start = *p.StartDate
		}
		if p.EndDate != nil {
			end = *p.EndDate
		}
		opts = append(opts, timelog.WithSchedule(start, end))
	}
	for name, hours := range p.Budgets {
		d, err := timelog.ParseDiscipline(name)
		if err != nil {
			t.log.Warn("skipping budget", zap.String("project", p.Code), zap.Error(err))
			continue
		}
		opts = append(opts, timelog.WithBudget(d, hours))
	}
	return timelog.NewProject(p.Name, p.Code, opts...)
}

func (t *Tracker) resume(a store.Activity) error {
	e, err := t.reg.Employee(a.EmployeeID)
	if err != nil {
		return err
	}
	p, err := t.reg.Project(a.ProjectCode)
	if err != nil {
		return err
	}
	d, err := timelog.ParseDiscipline(a.Discipline)
	if err != nil {
		return err
	}
	_, err = t.reg.ResumeActivity(a.ID, e, p, d, a.StartTime)
	return err
}

// sync aligns e's slot with the running row in the database, which another
// session may have started or stopped since this one loaded.
func (t *Tracker) sync(e *timelog.Employee) error {
	row, err := t.store.RunningActivity(e.ID)
	if err != nil {
		return err
	}
	cur := e.Current()
	if cur != nil && (row == nil || row.ID != cur.ID) {
		t.reg.DiscardActivity(e, "stopped in another session")
		cur = nil
	}
	if row != nil && cur == nil {
		return t.resume(*row)
	}
	return nil
}

func (t *Tracker) Close() error {
	return t.store.Close()
}

// Registry exposes the in-memory registry, mostly for tests and the demo.
func (t *Tracker) Registry() *timelog.Registry {
	return t.reg
}

// Records returns the per-employee record file writer.
func (t *Tracker) Records() export.RecordFile {
	return t.records
}

// ============================================================
// Roster
// ============================================================

// RegisterEmployee stores e and adds it to the registry.
func (t *Tracker) RegisterEmployee(e *timelog.Employee) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.reg.Employee(e.ID); err == nil {
		return fmt.Errorf("%w: %s", timelog.ErrDuplicateEmployee, e.ID)
	}
	if _, err := t.store.CreateEmployee(e); err != nil {
		return err
	}
	if err := t.reg.AddEmployee(e); err != nil {
		return err
	}
	t.log.Info("employee registered", zap.String("employee", e.Name), zap.String("id", e.ID))
	return nil
}

// RegisterProject stores p with its budgets and adds it to the registry.
func (t *Tracker) RegisterProject(p *timelog.Project) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.reg.Project(p.Code); err == nil {
		return fmt.Errorf("%w: %s", timelog.ErrDuplicateProject, p.Code)
	}
	if _, err := t.store.CreateProject(p); err != nil {
		return err
	}
	if err := t.reg.AddProject(p); err != nil {
		return err
	}
	t.log.Info("project registered", zap.String("project", p.Name), zap.String("code", p.Code))
	return nil
}

func (t *Tracker) Employees() []*timelog.Employee { return t.reg.Employees() }
func (t *Tracker) Projects() []*timelog.Project   { return t.reg.Projects() }

func (t *Tracker) Employee(id string) (*timelog.Employee, error) { return t.reg.Employee(id) }
func (t *Tracker) Project(code string) (*timelog.Project, error) { return t.reg.Project(code) }

// Login checks the login/id pair and returns the employee.
func (t *Tracker) Login(login, id string) (*timelog.Employee, error) {
	return t.reg.Login(login, id)
}

// ============================================================
// Activities
// ============================================================

// Start begins an activity and stores it as running. If the store rejects
// it the activity is discarded again so memory and disk agree.
func (t *Tracker) Start(employeeID, projectCode string, d timelog.Discipline) (*timelog.Activity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.reg.Employee(employeeID)
	if err != nil {
		return nil, err
	}
	p, err := t.reg.Project(projectCode)
	if err != nil {
		return nil, err
	}
	if err := t.sync(e); err != nil {
		return nil, err
	}
	a, err := t.reg.StartActivity(e, p, d)
	if err != nil {
		return nil, err
	}
	if _, err := t.store.StartActivity(a); err != nil {
		t.reg.DiscardActivity(e, "not stored")
		return nil, err
	}
	return a, nil
}

// Stop ends the running activity of the employee and records it in the
// database and the record file. It returns (nil, nil) when nothing runs,
// including when another session stopped it first.
func (t *Tracker) Stop(employeeID string) (*timelog.Activity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.reg.Employee(employeeID)
	if err != nil {
		return nil, err
	}
	if err := t.sync(e); err != nil {
		return nil, err
	}
	return t.reg.EndActivity(e)
}

// Current returns the running activity of the employee, or nil.
func (t *Tracker) Current(employeeID string) (*timelog.Activity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.reg.Employee(employeeID)
	if err != nil {
		return nil, err
	}
	if err := t.sync(e); err != nil {
		return nil, err
	}
	return e.Current(), nil
}

// LastRecord reads the record file of the employee.
func (t *Tracker) LastRecord(employeeID string) (*timelog.ActivityRecord, error) {
	e, err := t.reg.Employee(employeeID)
	if err != nil {
		return nil, err
	}
	return t.records.ReadRecord(e.Name)
}

// ============================================================
// Reports
// ============================================================

func (t *Tracker) History(f store.ActivityFilter) ([]store.Activity, error) {
	return t.store.ListActivities(f)
}

func (t *Tracker) DailySummary(employeeID string, from, to time.Time) ([]store.DailySummary, error) {
	return t.store.GetDailySummary(employeeID, from, to)
}

func (t *Tracker) BudgetUsage(projectCode string) ([]store.BudgetUsage, error) {
	if _, err := t.reg.Project(projectCode); err != nil {
		return nil, err
	}
	return t.store.GetBudgetUsage(projectCode)
}

// Export writes the completed activities matching f to path as csv or json.
func (t *Tracker) Export(format, path string, f store.ActivityFilter) (int, error) {
	f.Completed = true
	activities, err := t.store.ListActivities(f)
	if err != nil {
		return 0, err
	}
	switch format {
	case "csv":
		err = export.ToCSV(activities, path)
	case "json":
		err = export.ToJSON(activities, path)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return 0, err
	}
	t.log.Info("history exported", zap.String("path", path), zap.Int("count", len(activities)))
	return len(activities), nil
}
