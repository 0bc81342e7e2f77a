package waitfor

import (
	"errors"
	"fmt"
)

// updatePhase is the state of a two-phase update wait.
type updatePhase int

const (
	// awaitingStaleness: the old handle must be observed stale first.
	awaitingStaleness updatePhase = iota
	// awaitingNewState: staleness was seen; wait for the new element.
	awaitingNewState
)

func (p updatePhase) String() string {
	if p == awaitingStaleness {
		return "awaiting staleness"
	}
	return "awaiting new state"
}

// updateTracker proves a re-render happened before the new state is
// checked. The transition to awaitingNewState is one-way. A tracker
// belongs to exactly one condition and therefore one wait.
type updateTracker struct {
	old   Element
	phase updatePhase
}

func newUpdateTracker(old Element) *updateTracker {
	return &updateTracker{old: old}
}

// step probes the old handle while awaiting staleness. It reports whether
// the new state may be checked on this poll, or the probe error. Only a
// detached handle counts as proof of a re-render; a missing node does not.
func (u *updateTracker) step() (bool, error) {
	if u.phase == awaitingNewState {
		return true, nil
	}
	_, err := u.old.Displayed()
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, ErrStaleElement):
		u.phase = awaitingNewState
		return true, nil
	default:
		return false, err
	}
}

// updateCondition builds the shared two-phase condition. next checks the
// new state once staleness has been observed.
func updateCondition(name string, old Element, next func(Session) Evaluation[Element], describe func() string) Condition[Element] {
	tracker := newUpdateTracker(old)
	return NewCondition(name, func(s Session) Evaluation[Element] {
		ok, err := tracker.step()
		if err != nil {
			return classify[Element](err)
		}
		if !ok {
			return NotYet[Element]()
		}
		return next(s)
	}, func() string {
		return fmt.Sprintf("%s [%s]", describe(), tracker.phase)
	})
}

// UpdateOfElementLocated waits for element to go stale and then for loc to
// resolve under ctx (the session if nil) to a visible element, which it
// returns. A refreshable
// element is unwrapped at construction so the node present now is the one
// watched.
func UpdateOfElementLocated(element Element, ctx SearchContext, loc Locator) Condition[Element] {
	const name = "updateOfElementLocated"
	old, err := LiveHandle(element)
	if err != nil {
		return failed[Element](name, err)
	}
	return updateCondition(name, old, func(s Session) Evaluation[Element] {
		return visibleLocated(contextOr(ctx, s), loc)
	}, func() string {
		return fmt.Sprintf("%s %v:%s", name, ctx, loc)
	})
}

// UpdateOfElement waits for the node element currently resolves to go
// stale and then for element, re-resolved, to be visible. element must be
// refreshable.
func UpdateOfElement(element Element) Condition[Element] {
	const name = "updateOfElement"
	if !element.Refreshable() {
		return failed[Element](name, fmt.Errorf("%w: %s", ErrNotRefreshable, element))
	}
	old, err := element.Live()
	if err != nil {
		return failed[Element](name, err)
	}
	return updateCondition(name, old, func(Session) Evaluation[Element] {
		return visible(element)
	}, func() string {
		return fmt.Sprintf("%s %s", name, element)
	})
}

// UpdateFromElementTo waits for the node from currently resolves to go
// stale and then for to to be visible. from must be refreshable.
func UpdateFromElementTo(from, to Element) Condition[Element] {
	const name = "updateFromElementTo"
	if !from.Refreshable() {
		return failed[Element](name, fmt.Errorf("%w: %s", ErrNotRefreshable, from))
	}
	old, err := from.Live()
	if err != nil {
		return failed[Element](name, err)
	}
	return updateCondition(name, old, func(Session) Evaluation[Element] {
		return visible(to)
	}, func() string {
		return fmt.Sprintf("%s %s to %s", name, from, to)
	})
}
