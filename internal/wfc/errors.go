package wfc

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded reports that extraction found more distinct
	// patterns than the configured limit allows.
	ErrCapacityExceeded = errors.New("wfc: pattern capacity exceeded")
	// ErrInvalidResume reports that a resumable phase was continued against
	// inputs whose dimensions or pattern count changed since it started.
	ErrInvalidResume = errors.New("wfc: phase resumed with mismatched inputs")
	// ErrIllegalCollapse reports a collapse of a cell that is already
	// collapsed or has no possibilities left.
	ErrIllegalCollapse = errors.New("wfc: illegal collapse")
	// ErrNotReady reports that generation was requested before setup finished.
	ErrNotReady = errors.New("wfc: setup not finished")
	// ErrEmptySource reports a source too small to hold a single window.
	ErrEmptySource = errors.New("wfc: source smaller than pattern size")
)

// CapacityError carries the window position at which extraction overflowed.
// The scan stops at that window, so the library's frequencies are partial
// when it is returned.
type CapacityError struct {
	Limit int
	X, Y  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("wfc: pattern capacity %d exceeded by window at (%d,%d)", e.Limit, e.X, e.Y)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// CollapseError describes which cell refused to collapse and why.
type CollapseError struct {
	X, Y   int
	Reason string
}

func (e *CollapseError) Error() string {
	return fmt.Sprintf("wfc: illegal collapse at (%d,%d): %s", e.X, e.Y, e.Reason)
}

func (e *CollapseError) Unwrap() error { return ErrIllegalCollapse }

func invalidResume(phase, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidResume, phase, fmt.Sprintf(format, args...))
}
