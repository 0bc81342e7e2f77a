package waitfor

import "fmt"

// By names a locator strategy.
type By string

// Locator strategies understood by the drivers.
const (
	ByCSS   By = "css"
	ByXPath By = "xpath"
	ByID    By = "id"
	ByName  By = "name"
	ByTag   By = "tag"
)

// Locator is a declarative element query resolved against a SearchContext.
type Locator struct {
	By    By
	Value string
}

// CSS returns a CSS selector locator.
func CSS(selector string) Locator { return Locator{By: ByCSS, Value: selector} }

// XPath returns an XPath locator.
func XPath(expr string) Locator { return Locator{By: ByXPath, Value: expr} }

// ID returns a locator matching the element id attribute.
func ID(id string) Locator { return Locator{By: ByID, Value: id} }

// Name returns a locator matching the element name attribute.
func Name(name string) Locator { return Locator{By: ByName, Value: name} }

// Tag returns a locator matching the element tag name.
func Tag(name string) Locator { return Locator{By: ByTag, Value: name} }

func (l Locator) String() string {
	return fmt.Sprintf("By.%s: %s", l.By, l.Value)
}

// firstChild locates the first element child of a search context.
var firstChild = XPath("*[1]")

// childElements locates the immediate element children of a search context.
var childElements = XPath("./*")

// SearchContext resolves locators against a scope: a whole document
// (a Session) or a subtree (an Element).
type SearchContext interface {
	// FindElement returns the first match or an error wrapping
	// ErrNoSuchElement.
	FindElement(loc Locator) (Element, error)

	// FindElements returns every match. No match is an empty slice,
	// not an error.
	FindElements(loc Locator) ([]Element, error)
}

// Element is an opaque handle to a node in a remote, mutable document.
//
// Any operation may fail with an error wrapping ErrStaleElement once the
// node has been removed or replaced.
type Element interface {
	SearchContext

	// Displayed reports whether the element is rendered visibly.
	Displayed() (bool, error)

	// Text returns the rendered text of the element.
	Text() (string, error)

	// Attribute returns the attribute value and whether it is present.
	Attribute(name string) (value string, ok bool, err error)

	// Equal reports whether both handles refer to the same node.
	Equal(other Element) (bool, error)

	// Refreshable reports whether this handle re-resolves itself against
	// its origin on every call.
	Refreshable() bool

	// Live returns the concrete handle this element currently refers to.
	// For a plain handle it is the receiver itself.
	Live() (Element, error)

	String() string
}

// Alert is a modal dialog raised by the page.
type Alert interface {
	Text() (string, error)
	Accept() error
	Dismiss() error
}

// Session is a remote browser session. Locators resolve against the
// current browsing context (top-level document or a frame).
type Session interface {
	SearchContext

	// WindowHandles returns the open window handles in a stable order.
	WindowHandles() ([]string, error)

	// CurrentWindow returns the handle of the focused window.
	CurrentWindow() (string, error)

	// SwitchToWindow focuses the window with the given handle. An unknown
	// handle yields ErrNoSuchWindow.
	SwitchToWindow(handle string) error

	// SwitchToFrame makes the frame element the current browsing context.
	// An element that is not a frame yields ErrNoSuchFrame.
	SwitchToFrame(frame Element) error

	// SwitchToDefaultContent returns to the top-level document.
	SwitchToDefaultContent() error

	// Alert returns the open dialog or an error wrapping ErrNoAlert.
	Alert() (Alert, error)

	// ActiveElement returns the focused element.
	ActiveElement() (Element, error)

	// ExecuteScript runs a script in the current context. The script
	// body receives args as arguments and may return a value.
	ExecuteScript(script string, args ...any) (any, error)
}
