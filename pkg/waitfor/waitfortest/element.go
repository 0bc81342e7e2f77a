package waitfortest

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// element is a plain handle to a node. It goes stale when the node is
// detached from its window.
type element struct {
	s *Session
	h *html.Node
}

var _ waitfor.Element = (*element)(nil)

// check counts the operation and reports staleness. Callers hold s.mu.
func (e *element) check() error {
	if err := e.s.begin(); err != nil {
		return err
	}
	if !e.s.attached(e.h) {
		return fmt.Errorf("%w: %s", waitfor.ErrStaleElement, describe(e.h))
	}
	return nil
}

func (e *element) FindElement(loc waitfor.Locator) (waitfor.Element, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if err := e.check(); err != nil {
		return nil, err
	}
	return e.s.findOne(e.h, loc)
}

func (e *element) FindElements(loc waitfor.Locator) ([]waitfor.Element, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if err := e.check(); err != nil {
		return nil, err
	}
	return e.s.findAll(e.h, loc)
}

func (e *element) Displayed() (bool, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if err := e.check(); err != nil {
		return false, err
	}
	return e.s.displayed(e.h), nil
}

func (e *element) Text() (string, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if err := e.check(); err != nil {
		return "", err
	}
	if !e.s.displayed(e.h) {
		return "", nil
	}
	return e.s.visibleText(e.h), nil
}

func (e *element) Attribute(name string) (string, bool, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if err := e.check(); err != nil {
		return "", false, err
	}
	v, ok := attr(e.h, name)
	return v, ok, nil
}

func (e *element) Equal(other waitfor.Element) (bool, error) {
	live, err := waitfor.LiveHandle(other)
	if err != nil {
		return false, err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if err := e.check(); err != nil {
		return false, err
	}
	o, ok := live.(*element)
	return ok && o.h == e.h, nil
}

func (e *element) Refreshable() bool { return false }

func (e *element) Live() (waitfor.Element, error) { return e, nil }

func (e *element) String() string {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return describe(e.h)
}
