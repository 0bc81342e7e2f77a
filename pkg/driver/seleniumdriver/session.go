// Package seleniumdriver adapts a tebeka/selenium WebDriver client to
// waitfor.Session, and waitfor conditions to selenium.Condition.
package seleniumdriver

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// Session is a waitfor.Session over a WebDriver session.
type Session struct {
	wd selenium.WebDriver
}

var _ waitfor.Session = (*Session)(nil)

// New wraps wd.
func New(wd selenium.WebDriver) *Session {
	return &Session{wd: wd}
}

// WebDriver returns the wrapped client.
func (s *Session) WebDriver() selenium.WebDriver { return s.wd }

func (s *Session) String() string { return "selenium" }

func strategy(loc waitfor.Locator) (string, error) {
	switch loc.By {
	case waitfor.ByCSS:
		return selenium.ByCSSSelector, nil
	case waitfor.ByXPath:
		return selenium.ByXPATH, nil
	case waitfor.ByID:
		return selenium.ByID, nil
	case waitfor.ByName:
		return selenium.ByName, nil
	case waitfor.ByTag:
		return selenium.ByTagName, nil
	default:
		return "", fmt.Errorf("selenium: unsupported locator strategy %q", loc.By)
	}
}

// finder is implemented by selenium.WebDriver and selenium.WebElement.
type finder interface {
	FindElement(by, value string) (selenium.WebElement, error)
	FindElements(by, value string) ([]selenium.WebElement, error)
}

func (s *Session) findOne(f finder, loc waitfor.Locator) (waitfor.Element, error) {
	by, err := strategy(loc)
	if err != nil {
		return nil, err
	}
	we, err := f.FindElement(by, loc.Value)
	if err != nil {
		return nil, mapError(err)
	}
	return &element{s: s, we: we}, nil
}

func (s *Session) findAll(f finder, loc waitfor.Locator) ([]waitfor.Element, error) {
	by, err := strategy(loc)
	if err != nil {
		return nil, err
	}
	found, err := f.FindElements(by, loc.Value)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]waitfor.Element, len(found))
	for i, we := range found {
		out[i] = &element{s: s, we: we}
	}
	return out, nil
}

func (s *Session) FindElement(loc waitfor.Locator) (waitfor.Element, error) {
	return s.findOne(s.wd, loc)
}

func (s *Session) FindElements(loc waitfor.Locator) ([]waitfor.Element, error) {
	return s.findAll(s.wd, loc)
}

func (s *Session) WindowHandles() ([]string, error) {
	handles, err := s.wd.WindowHandles()
	return handles, mapError(err)
}

func (s *Session) CurrentWindow() (string, error) {
	h, err := s.wd.CurrentWindowHandle()
	return h, mapError(err)
}

func (s *Session) SwitchToWindow(handle string) error {
	return mapError(s.wd.SwitchWindow(handle))
}

func (s *Session) SwitchToFrame(frame waitfor.Element) error {
	e, err := s.own(frame)
	if err != nil {
		return err
	}
	return mapError(s.wd.SwitchFrame(e.we))
}

func (s *Session) SwitchToDefaultContent() error {
	return mapError(s.wd.SwitchFrame(nil))
}

func (s *Session) Alert() (waitfor.Alert, error) {
	text, err := s.wd.AlertText()
	if err != nil {
		return nil, mapError(err)
	}
	return &alert{wd: s.wd, text: text}, nil
}

func (s *Session) ActiveElement() (waitfor.Element, error) {
	we, err := s.wd.ActiveElement()
	if err != nil {
		return nil, mapError(err)
	}
	return &element{s: s, we: we}, nil
}

// ExecuteScript runs a synchronous script. Element arguments are sent as
// WebDriver element references.
func (s *Session) ExecuteScript(script string, args ...any) (any, error) {
	params := make([]any, len(args))
	for i, a := range args {
		el, ok := a.(waitfor.Element)
		if !ok {
			params[i] = a
			continue
		}
		e, err := s.own(el)
		if err != nil {
			return nil, err
		}
		params[i] = e.we
	}
	res, err := s.wd.ExecuteScript(script, params)
	return res, mapError(err)
}

func (s *Session) own(el waitfor.Element) (*element, error) {
	live, err := waitfor.LiveHandle(el)
	if err != nil {
		return nil, err
	}
	e, ok := live.(*element)
	if !ok || e.s != s {
		return nil, fmt.Errorf("selenium: element %s does not belong to this session", el)
	}
	return e, nil
}

// sameReference compares two WebDriver element references.
func sameReference(a, b selenium.WebElement) (bool, error) {
	ra, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("selenium: encode element reference: %w", err)
	}
	rb, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("selenium: encode element reference: %w", err)
	}
	return bytes.Equal(ra, rb), nil
}

type alert struct {
	wd   selenium.WebDriver
	text string
}

func (a *alert) Text() (string, error) { return a.text, nil }

func (a *alert) Accept() error { return mapError(a.wd.AcceptAlert()) }

func (a *alert) Dismiss() error { return mapError(a.wd.DismissAlert()) }
