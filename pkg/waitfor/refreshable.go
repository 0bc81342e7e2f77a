package waitfor

import (
	"errors"
	"fmt"
)

// refreshable is an Element that resolves loc against ctx on every call,
// so it follows the node across re-renders.
type refreshable struct {
	ctx SearchContext
	loc Locator
}

// NewRefreshable returns a handle that re-resolves loc against ctx on every
// operation. It never goes stale itself; operations fail with
// ErrNoSuchElement while nothing matches.
func NewRefreshable(ctx SearchContext, loc Locator) Element {
	return &refreshable{ctx: ctx, loc: loc}
}

// ElementIfPresent returns a refreshable handle for loc if it currently
// resolves under ctx, and nil if it does not. Other errors are returned.
func ElementIfPresent(ctx SearchContext, loc Locator) (Element, error) {
	if _, err := ctx.FindElement(loc); err != nil {
		if isStale(err) {
			return nil, nil
		}
		return nil, err
	}
	return NewRefreshable(ctx, loc), nil
}

func (r *refreshable) Live() (Element, error) {
	el, err := r.ctx.FindElement(r.loc)
	if err != nil {
		return nil, err
	}
	// Unwrap nested refreshables so callers always get a concrete handle.
	if el.Refreshable() {
		return el.Live()
	}
	return el, nil
}

func (r *refreshable) Refreshable() bool { return true }

func (r *refreshable) FindElement(loc Locator) (Element, error) {
	el, err := r.Live()
	if err != nil {
		return nil, err
	}
	return el.FindElement(loc)
}

func (r *refreshable) FindElements(loc Locator) ([]Element, error) {
	el, err := r.Live()
	if err != nil {
		return nil, err
	}
	return el.FindElements(loc)
}

func (r *refreshable) Displayed() (bool, error) {
	el, err := r.Live()
	if err != nil {
		return false, err
	}
	return el.Displayed()
}

func (r *refreshable) Text() (string, error) {
	el, err := r.Live()
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (r *refreshable) Attribute(name string) (string, bool, error) {
	el, err := r.Live()
	if err != nil {
		return "", false, err
	}
	return el.Attribute(name)
}

func (r *refreshable) Equal(other Element) (bool, error) {
	el, err := r.Live()
	if err != nil {
		return false, err
	}
	if other == nil {
		return false, errors.New("waitfor: compare with nil element")
	}
	return el.Equal(other)
}

func (r *refreshable) String() string {
	return fmt.Sprintf("[%v -> %s]", r.ctx, r.loc)
}

// LiveHandle returns the concrete handle behind el: Live() for refreshable
// handles, el itself otherwise. Drivers use it before comparing handles.
func LiveHandle(el Element) (Element, error) {
	if !el.Refreshable() {
		return el, nil
	}
	return el.Live()
}
