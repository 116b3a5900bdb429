package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email is already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrNoFreshersInDept   = errors.New("no freshers found in this department")
	ErrNoLectures         = errors.New("course must contain at least one lecture")
	ErrLectureOutOfRange  = errors.New("lecture index out of range")
	ErrDepartmentRequired = errors.New("department name is required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PartialFailureError marks a workflow that committed some of its steps
// before failing. It carries the identifiers an operator needs to reconcile
// the orphaned state by hand.
type PartialFailureError struct {
	Op      string
	UserID  string
	Email   string
	Wrapped error
}

func (e *PartialFailureError) Error() string {
	return e.Op + " partially failed for " + e.Email + " (user " + e.UserID + "): " + e.Wrapped.Error()
}

func (e *PartialFailureError) Unwrap() error { return e.Wrapped }
