package timelog

import (
	"fmt"
	"time"
)

// Employee is a person who books time. Identity and rates are fixed at
// registration; only the activity slot changes during a run.
type Employee struct {
	Name         string
	ID           string
	Login        string
	BaseRate     float64 // per hour
	OvertimeRate float64 // per hour, not used by Wage

	slot Slot
}

func NewEmployee(name, id, login string, baseRate, overtimeRate float64) *Employee {
	return &Employee{
		Name:         name,
		ID:           id,
		Login:        login,
		BaseRate:     baseRate,
		OvertimeRate: overtimeRate,
		slot:         Idle{},
	}
}

// Slot is the state of an employee's activity slot: Idle or InProgress.
type Slot interface {
	isSlot()
}

// Idle means no activity is running.
type Idle struct{}

// InProgress holds the running activity.
type InProgress struct {
	Activity *Activity
}

func (Idle) isSlot()       {}
func (InProgress) isSlot() {}

// Slot returns the current slot state. A zero Employee is Idle.
func (e *Employee) Slot() Slot {
	if e.slot == nil {
		return Idle{}
	}
	return e.slot
}

// Current returns the running activity, or nil when idle.
func (e *Employee) Current() *Activity {
	switch s := e.Slot().(type) {
	case InProgress:
		return s.Activity
	default:
		return nil
	}
}

// Idle reports whether no activity is running.
func (e *Employee) Idle() bool {
	_, ok := e.Slot().(Idle)
	return ok
}

// BeginActivity starts a new activity stamped at now. It fails with
// ErrActivityInProgress if one is already running; the running one is kept.
// d must be one of Disciplines.
func (e *Employee) BeginActivity(p *Project, d Discipline, now time.Time) (*Activity, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDiscipline, string(d))
	}
	if cur := e.Current(); cur != nil {
		return nil, fmt.Errorf("%w: %s has %s on %s since %s",
			ErrActivityInProgress, e.Name, cur.Discipline, cur.Project.Name, cur.Start.Format(time.RFC3339))
	}
	a := newActivity(e, p, d)
	a.Start = now
	e.slot = InProgress{Activity: a}
	return a, nil
}

// resume puts an already started activity back in the slot.
func (e *Employee) resume(a *Activity) error {
	if cur := e.Current(); cur != nil {
		return fmt.Errorf("%w: %s", ErrActivityInProgress, cur.ID)
	}
	e.slot = InProgress{Activity: a}
	return nil
}

// discard empties the slot without ending the activity.
func (e *Employee) discard() *Activity {
	a := e.Current()
	e.slot = Idle{}
	return a
}

// EndActivity stamps the running activity with now, hands it to rec and
// returns the slot to Idle. It returns (nil, nil) when nothing is running.
//
// A recorder failure is returned wrapped in ErrPersist together with the
// completed activity. The slot is cleared in both cases.
func (e *Employee) EndActivity(now time.Time, rec Recorder) (*Activity, error) {
	a := e.Current()
	if a == nil {
		return nil, nil
	}
	a.End = now
	err := a.Persist(rec)
	e.slot = Idle{}
	return a, err
}
