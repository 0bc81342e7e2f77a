package waitfor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/thesyncim/pagewait/pkg/waitfor/internal"
)

// Result classifies how a wait ended.
type Result string

const (
	ResultReady     Result = "ready"
	ResultFatal     Result = "fatal"
	ResultTimeout   Result = "timeout"
	ResultCancelled Result = "cancelled"
)

// Report summarizes one finished wait.
type Report struct {
	Condition string // Condition.Name
	Result    Result
	Attempts  int
	Elapsed   time.Duration
	Err       error
}

// Observer is notified when a wait ends.
type Observer interface {
	ObserveWait(r Report)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Report)

// ObserveWait calls f(r).
func (f ObserverFunc) ObserveWait(r Report) { f(r) }

// Poller evaluates conditions on a fixed interval until they are ready,
// fail, or time out. A Poller holds no per-wait state and may be shared.
type Poller struct {
	timeout   time.Duration
	interval  time.Duration
	clock     internal.Clock
	log       logr.Logger
	observers []Observer
}

// NewPoller creates a Poller. Configure it using Option functions.
//
// Example:
//
//	p, err := waitfor.NewPoller(
//	    waitfor.WithTimeout(30*time.Second),
//	    waitfor.WithPollInterval(250*time.Millisecond),
//	)
func NewPoller(opts ...Option) (*Poller, error) {
	p := &Poller{
		timeout:  DefaultTimeout,
		interval: DefaultPollInterval,
		clock:    internal.MonotonicClock{},
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// With returns a copy of p with opts applied on top of its settings.
func (p *Poller) With(opts ...Option) (*Poller, error) {
	cp := *p
	cp.observers = append([]Observer(nil), p.observers...)
	for _, opt := range opts {
		if err := opt(&cp); err != nil {
			return nil, err
		}
	}
	return &cp, nil
}

// Timeout returns the configured timeout.
func (p *Poller) Timeout() time.Duration { return p.timeout }

// PollInterval returns the configured poll interval.
func (p *Poller) PollInterval() time.Duration { return p.interval }

// Until evaluates c against s until it is ready and returns its value.
//
// The first evaluation happens immediately. Pending evaluations are retried
// every poll interval until the timeout passes, at which point a
// *TimeoutError describing the condition is returned. A Fatal evaluation
// ends the wait at once. Cancelling ctx interrupts the pause between polls.
func Until[T any](ctx context.Context, p *Poller, s Session, c Condition[T]) (T, error) {
	var zero T
	log := p.log.WithValues("condition", c.Name())

	start := p.clock.Now()
	deadline := start.Add(p.timeout)
	var lastErr error

	for attempt := 1; ; attempt++ {
		ev := c.Evaluate(s)
		switch ev.Outcome {
		case Ready:
			log.V(1).Info("condition satisfied", "attempts", attempt)
			p.report(Report{Condition: c.Name(), Result: ResultReady, Attempts: attempt, Elapsed: p.clock.Now().Sub(start)})
			return ev.Value, nil
		case Fatal:
			err := fmt.Errorf("waitfor: %s: %w", c, ev.Err)
			log.Error(ev.Err, "condition failed", "attempts", attempt, "waitingFor", c.String())
			p.report(Report{Condition: c.Name(), Result: ResultFatal, Attempts: attempt, Elapsed: p.clock.Now().Sub(start), Err: err})
			return zero, err
		}

		if ev.Err != nil {
			lastErr = ev.Err
			log.V(2).Info("transient error", "attempt", attempt, "error", ev.Err.Error())
		}

		if !p.clock.Now().Before(deadline) {
			err := &TimeoutError{Condition: c.String(), Timeout: p.timeout, Attempts: attempt, Last: lastErr}
			log.Info("wait timed out", "attempts", attempt, "waitingFor", err.Condition)
			p.report(Report{Condition: c.Name(), Result: ResultTimeout, Attempts: attempt, Elapsed: p.clock.Now().Sub(start), Err: err})
			return zero, err
		}

		log.V(1).Info("condition pending", "attempt", attempt)
		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			err = fmt.Errorf("waitfor: %s: %w", c, err)
			p.report(Report{Condition: c.Name(), Result: ResultCancelled, Attempts: attempt, Elapsed: p.clock.Now().Sub(start), Err: err})
			return zero, err
		}
	}
}

func (p *Poller) report(r Report) {
	for _, o := range p.observers {
		o.ObserveWait(r)
	}
}
