package seleniumdriver

import (
	"encoding/json"
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// tebeka/selenium reports a null attribute value with this message rather
// than a WebDriver error code.
const nilAttribute = "nil return value"

type element struct {
	s  *Session
	we selenium.WebElement
}

var _ waitfor.Element = (*element)(nil)

func (e *element) FindElement(loc waitfor.Locator) (waitfor.Element, error) {
	return e.s.findOne(e.we, loc)
}

func (e *element) FindElements(loc waitfor.Locator) ([]waitfor.Element, error) {
	return e.s.findAll(e.we, loc)
}

func (e *element) Displayed() (bool, error) {
	shown, err := e.we.IsDisplayed()
	return shown, mapError(err)
}

func (e *element) Text() (string, error) {
	text, err := e.we.Text()
	return text, mapError(err)
}

func (e *element) Attribute(name string) (string, bool, error) {
	v, err := e.we.GetAttribute(name)
	if err != nil {
		if err.Error() == nilAttribute {
			return "", false, nil
		}
		return "", false, mapError(err)
	}
	return v, true, nil
}

func (e *element) Equal(other waitfor.Element) (bool, error) {
	o, err := e.s.own(other)
	if err != nil {
		return false, err
	}
	return sameReference(e.we, o.we)
}

func (e *element) Refreshable() bool { return false }

func (e *element) Live() (waitfor.Element, error) { return e, nil }

func (e *element) String() string {
	ref, err := json.Marshal(e.we)
	if err != nil {
		return "selenium element"
	}
	return fmt.Sprintf("selenium element %s", ref)
}
