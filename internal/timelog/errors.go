package timelog

import "errors"

var (
	ErrActivityInProgress = errors.New("an activity is already in progress")
	ErrNotAssigned        = errors.New("employee is not assigned to this project")
	ErrPersist            = errors.New("activity not persisted")
	ErrAuthFailed         = errors.New("authentication failed")
)

// Registry lookups and registration.
var (
	ErrDuplicateEmployee = errors.New("employee id already registered")
	ErrDuplicateProject  = errors.New("project code already registered")
	ErrUnknownEmployee   = errors.New("unknown employee")
	ErrUnknownProject    = errors.New("unknown project")
	ErrUnknownDiscipline = errors.New("unknown discipline")
)
