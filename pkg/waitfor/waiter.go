package waitfor

import (
	"context"
	"errors"
)

// Waiter binds a Session to a Poller so page code can wait without
// threading both through every call.
type Waiter struct {
	session Session
	poller  *Poller
}

// NewWaiter creates a Waiter. A nil poller uses the defaults.
func NewWaiter(s Session, p *Poller) (*Waiter, error) {
	if s == nil {
		return nil, errors.New("waitfor: session must not be nil")
	}
	if p == nil {
		var err error
		if p, err = NewPoller(); err != nil {
			return nil, err
		}
	}
	return &Waiter{session: s, poller: p}, nil
}

// Session returns the bound session.
func (w *Waiter) Session() Session { return w.session }

// Poller returns the bound poller.
func (w *Waiter) Poller() *Poller { return w.poller }

// Await runs Until with the waiter's session and poller.
func Await[T any](ctx context.Context, w *Waiter, c Condition[T]) (T, error) {
	return Until(ctx, w.poller, w.session, c)
}

// Expectation is a condition built before an action and awaited after it,
// so that baselines (open windows, the node about to be replaced) are
// captured before the page changes.
type Expectation[T any] struct {
	w    *Waiter
	cond Condition[T]
}

// Expect prepares c for a later Get.
func Expect[T any](w *Waiter, c Condition[T]) *Expectation[T] {
	return &Expectation[T]{w: w, cond: c}
}

// Get waits for the prepared condition.
func (e *Expectation[T]) Get(ctx context.Context) (T, error) {
	return Await(ctx, e.w, e.cond)
}

// Condition returns the prepared condition.
func (e *Expectation[T]) Condition() Condition[T] {
	return e.cond
}
