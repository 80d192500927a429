package timelog

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns the employees and projects of a run and routes activity
// start and stop requests. All methods are safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	employees []*Employee
	projects  []*Project

	clock    Clock
	recorder Recorder
	log      *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

func WithClock(c Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithRecorder sets where completed activities are persisted.
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) { r.recorder = rec }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:    SystemClock{},
		recorder: NopRecorder{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddEmployee appends e. Employee ids are unique within the registry.
func (r *Registry) AddEmployee(e *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.employee(e.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateEmployee, e.ID)
	}
	r.employees = append(r.employees, e)
	return nil
}

// AddProject appends p. Project codes are unique within the registry.
func (r *Registry) AddProject(p *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.project(p.Code) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateProject, p.Code)
	}
	r.projects = append(r.projects, p)
	return nil
}

// Employees returns the employees in registration order.
func (r *Registry) Employees() []*Employee {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Employee(nil), r.employees...)
}

// Projects returns the projects in registration order.
func (r *Registry) Projects() []*Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Project(nil), r.projects...)
}

func (r *Registry) Employee(id string) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.employee(id); e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEmployee, id)
}

func (r *Registry) Project(code string) (*Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.project(code); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProject, code)
}

func (r *Registry) employee(id string) *Employee {
	for _, e := range r.employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (r *Registry) project(code string) *Project {
	for _, p := range r.projects {
		if p.Code == code {
			return p
		}
	}
	return nil
}

// Authenticate reports whether an employee with exactly this login and id
// is registered. The id acts as a plaintext shared secret.
func (r *Registry) Authenticate(login, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.match(login, id)
	if e == nil {
		r.log.Info("authentication failed", zap.String("login", login))
		return false
	}
	r.log.Info("authentication succeeded", zap.String("login", login), zap.String("employee", e.Name))
	return true
}

// Login is Authenticate returning the matched employee.
func (r *Registry) Login(login, id string) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.match(login, id)
	if e == nil {
		r.log.Info("authentication failed", zap.String("login", login))
		return nil, fmt.Errorf("%w for %q", ErrAuthFailed, login)
	}
	r.log.Info("authentication succeeded", zap.String("login", login), zap.String("employee", e.Name))
	return e, nil
}

func (r *Registry) match(login, id string) *Employee {
	for _, e := range r.employees {
		if e.Login == login && e.ID == id {
			return e
		}
	}
	return nil
}

// StartActivity begins an activity for e on p if e is assigned to p.
func (r *Registry) StartActivity(e *Employee, p *Project, d Discipline) (*Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !p.IsAssignedTo(e) {
		r.log.Info("employee is not assigned to project",
			zap.String("employee", e.Name), zap.String("project", p.Code))
		return nil, fmt.Errorf("%w: %s on %s", ErrNotAssigned, e.ID, p.Code)
	}
	a, err := e.BeginActivity(p, d, r.clock.Now())
	if err != nil {
		return nil, err
	}
	r.log.Info("activity started",
		zap.String("employee", e.Name),
		zap.String("project", p.Name),
		zap.Stringer("discipline", d),
		zap.Time("start", a.Start),
	)
	return a, nil
}

// ResumeActivity restores an activity that was started in an earlier run.
func (r *Registry) ResumeActivity(id string, e *Employee, p *Project, d Discipline, start time.Time) (*Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := &Activity{ID: id, Employee: e, Project: p, Discipline: d, Start: start}
	if err := e.resume(a); err != nil {
		return nil, err
	}
	r.log.Debug("activity resumed", zap.String("employee", e.Name), zap.String("activity", id))
	return a, nil
}

// DiscardActivity empties e's slot without recording the activity, for
// activities that never made it to storage or were stopped elsewhere. It
// returns the dropped activity, or nil when e was idle.
func (r *Registry) DiscardActivity(e *Employee, reason string) *Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := e.discard()
	if a == nil {
		return nil
	}
	r.log.Info("activity discarded",
		zap.String("employee", e.Name),
		zap.String("activity", a.ID),
		zap.String("reason", reason),
	)
	return a
}

// EndActivity stops e's running activity and persists it. When e is idle
// it logs a notice and returns (nil, nil).
func (r *Registry) EndActivity(e *Employee) (*Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := e.EndActivity(r.clock.Now(), r.recorder)
	if a == nil && err == nil {
		r.log.Info("no activity in progress", zap.String("employee", e.Name))
		return nil, nil
	}
	r.log.Info("activity ended",
		zap.String("employee", e.Name),
		zap.Float64("hours", a.TotalHours()),
		zap.Float64("wage", a.Wage()),
	)
	if err != nil {
		r.log.Error("activity not saved", zap.String("activity", a.ID), zap.Error(err))
		return a, err
	}
	r.log.Info("activity saved", zap.String("activity", a.ID))
	return a, nil
}
