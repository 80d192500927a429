package tui

import (
	"time"

	"github.com/sadopc/timelog/internal/timelog"
	"github.com/sadopc/timelog/internal/tracker"
)

// timerModel follows the running activity of the logged-in employee. The
// tracker owns the activity; the timer only mirrors it for display.
type timerModel struct {
	tracker    *tracker.Tracker
	employeeID string
	activity   *timelog.Activity
	now        func() time.Time
}

func newTimerModel(t *tracker.Tracker) timerModel {
	return timerModel{tracker: t, now: time.Now}
}

// bind switches the timer to another employee and picks up an activity
// that may have been started earlier, e.g. from the command line.
func (t *timerModel) bind(employeeID string) {
	t.employeeID = employeeID
	t.sync()
}

func (t *timerModel) sync() {
	if t.employeeID == "" {
		t.activity = nil
		return
	}
	a, err := t.tracker.Current(t.employeeID)
	if err != nil {
		a = nil
	}
	t.activity = a
}

func (t *timerModel) start(projectCode string, d timelog.Discipline) (*timelog.Activity, error) {
	a, err := t.tracker.Start(t.employeeID, projectCode, d)
	if err != nil {
		// another session may have started one
		t.sync()
		return nil, err
	}
	t.activity = a
	return a, nil
}

// stop ends the running activity. It returns (nil, nil) when the timer is
// not running. A save failure still returns the ended activity.
func (t *timerModel) stop() (*timelog.Activity, error) {
	if t.activity == nil {
		return nil, nil
	}
	a, err := t.tracker.Stop(t.employeeID)
	t.activity = nil
	return a, err
}

func (t timerModel) running() bool {
	return t.activity != nil
}

func (t timerModel) currentElapsed() time.Duration {
	if t.activity == nil {
		return 0
	}
	return t.now().Sub(t.activity.Start)
}
