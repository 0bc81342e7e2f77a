package waitfor

import (
	"errors"
	"time"

	"github.com/go-logr/logr"

	"github.com/thesyncim/pagewait/pkg/waitfor/internal"
)

const (
	// DefaultTimeout is how long a wait polls before giving up.
	DefaultTimeout = 10 * time.Second
	// DefaultPollInterval is the pause between two evaluations.
	DefaultPollInterval = 100 * time.Millisecond
	// MinPollInterval is the lower bound positive intervals are clamped to.
	MinPollInterval = 10 * time.Millisecond
)

// Option configures a Poller.
type Option func(*Poller) error

// WithTimeout sets how long a wait polls before failing with a
// *TimeoutError. Zero keeps the current value.
// Default: 10 seconds
func WithTimeout(d time.Duration) Option {
	return func(p *Poller) error {
		if d < 0 {
			return errors.New("waitfor: timeout must not be negative")
		}
		if d > 0 {
			p.timeout = d
		}
		return nil
	}
}

// WithPollInterval sets the pause between evaluations. Zero keeps the
// current value; positive values under 10ms are clamped to 10ms.
// Default: 100ms
func WithPollInterval(d time.Duration) Option {
	return func(p *Poller) error {
		if d < 0 {
			return errors.New("waitfor: poll interval must not be negative")
		}
		if d > 0 {
			p.interval = max(d, MinPollInterval)
		}
		return nil
	}
}

// WithLogger sets the logger. Progress is logged at V(1), transient
// errors at V(2).
// Default: logr.Discard()
func WithLogger(l logr.Logger) Option {
	return func(p *Poller) error {
		p.log = l
		return nil
	}
}

// WithObserver registers an observer notified when each wait ends.
func WithObserver(o Observer) Option {
	return func(p *Poller) error {
		if o == nil {
			return errors.New("waitfor: observer must not be nil")
		}
		p.observers = append(p.observers, o)
		return nil
	}
}

// withClock replaces the clock. Tests use it to drive polls without
// sleeping.
func withClock(c internal.Clock) Option {
	return func(p *Poller) error {
		p.clock = c
		return nil
	}
}
