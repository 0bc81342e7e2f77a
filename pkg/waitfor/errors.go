package waitfor

import (
	"errors"
	"fmt"
	"time"
)

// Transient errors signal that the remote document is not yet in the
// awaited state. Conditions map them to Pending; drivers wrap their native
// errors around these values so errors.Is works across the boundary.
var (
	ErrStaleElement  = errors.New("stale element reference")
	ErrNoSuchElement = errors.New("no such element")
	ErrNoSuchFrame   = errors.New("no such frame")
	ErrNoAlert       = errors.New("no alert present")
	ErrNoSuchWindow  = errors.New("no such window")
)

var (
	// ErrNotRefreshable is returned by conditions that need to re-resolve
	// a handle when they are given a plain one. It is never retried.
	ErrNotRefreshable = errors.New("element handle cannot be re-resolved")

	// ErrTimeout matches every *TimeoutError via errors.Is.
	ErrTimeout = errors.New("wait timed out")
)

var transientErrors = []error{
	ErrStaleElement,
	ErrNoSuchElement,
	ErrNoSuchFrame,
	ErrNoAlert,
	ErrNoSuchWindow,
}

// IsTransient reports whether err means "not satisfied yet" rather than
// a failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range transientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// isStale reports whether err says the handle no longer exists, either
// because its node was detached or because it cannot be found at all.
func isStale(err error) bool {
	return errors.Is(err, ErrStaleElement) || errors.Is(err, ErrNoSuchElement)
}

// TimeoutError is returned when the deadline passes without a satisfying
// evaluation.
type TimeoutError struct {
	// Condition is the condition description rendered after the last poll.
	Condition string
	Timeout   time.Duration
	Attempts  int
	// Last is the most recent transient error, if any.
	Last error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("waitfor: timed out after %v waiting for: %s (tried %d times)", e.Timeout, e.Condition, e.Attempts)
	if e.Last != nil {
		msg += fmt.Sprintf(": last error: %v", e.Last)
	}
	return msg
}

// Is makes errors.Is(err, ErrTimeout) hold.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Unwrap returns the last transient error.
func (e *TimeoutError) Unwrap() error {
	return e.Last
}
