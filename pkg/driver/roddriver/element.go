package roddriver

import (
	"github.com/go-rod/rod"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// element is a plain rod handle. rod keeps a detached node's remote object
// alive, so every operation checks isConnected first to report staleness
// the way WebDriver does.
type element struct {
	s  *Session
	el *rod.Element
}

var _ waitfor.Element = (*element)(nil)

func (e *element) connected() error {
	res, err := e.el.Eval(`() => this.isConnected`)
	if err != nil {
		return mapError(err)
	}
	if !res.Value.Bool() {
		return stale(e.el)
	}
	return nil
}

func (e *element) FindElement(loc waitfor.Locator) (waitfor.Element, error) {
	if err := e.connected(); err != nil {
		return nil, err
	}
	return e.s.findOne(e.el, loc)
}

func (e *element) FindElements(loc waitfor.Locator) ([]waitfor.Element, error) {
	if err := e.connected(); err != nil {
		return nil, err
	}
	return e.s.findAll(e.el, loc)
}

func (e *element) Displayed() (bool, error) {
	if err := e.connected(); err != nil {
		return false, err
	}
	visible, err := e.el.Visible()
	if err != nil {
		return false, mapError(err)
	}
	return visible, nil
}

// Text returns the rendered text, which is empty for hidden elements.
func (e *element) Text() (string, error) {
	visible, err := e.Displayed()
	if err != nil || !visible {
		return "", err
	}
	text, err := e.el.Text()
	if err != nil {
		return "", mapError(err)
	}
	return text, nil
}

func (e *element) Attribute(name string) (string, bool, error) {
	if err := e.connected(); err != nil {
		return "", false, err
	}
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", false, mapError(err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *element) Equal(other waitfor.Element) (bool, error) {
	o, err := e.s.own(other)
	if err != nil {
		return false, err
	}
	same, err := e.el.Equal(o.el)
	if err != nil {
		return false, mapError(err)
	}
	return same, nil
}

func (e *element) Refreshable() bool { return false }

func (e *element) Live() (waitfor.Element, error) { return e, nil }

func (e *element) String() string { return e.el.String() }
