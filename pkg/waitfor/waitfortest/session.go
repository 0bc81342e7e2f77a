// Package waitfortest provides an in-memory browser session for testing
// code built on package waitfor.
//
// Documents are golang.org/x/net/html trees. CSS locators resolve through
// goquery and cascadia, XPath locators through htmlquery. Tests mutate the
// tree between polls: removing or replacing a node makes every handle to
// it stale, exactly as a re-render does in a real browser.
package waitfortest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// DefaultWindow is the handle of the window created by New.
const DefaultWindow = "window-1"

type window struct {
	handle string
	doc    *html.Node
}

// Session is an in-memory waitfor.Session. It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	st      *buildState
	open    map[*html.Node]bool       // window documents
	hosts   map[*html.Node]*html.Node // frame document to its iframe
	windows []*window
	current *window
	context *html.Node // document the locators resolve against
	active  *html.Node
	alerts  []*Alert
	script  func(script string, args []any) (any, error)

	injected []error
	calls    int
}

var _ waitfor.Session = (*Session)(nil)

// New creates a session with one window whose document holds body.
func New(body ...*Node) *Session {
	s := &Session{
		st:    newBuildState(),
		open:  make(map[*html.Node]bool),
		hosts: make(map[*html.Node]*html.Node),
	}
	doc, st := newDocument(body...)
	s.adopt(st)
	w := &window{handle: DefaultWindow, doc: doc}
	s.open[doc] = true
	s.windows = []*window{w}
	s.current = w
	s.context = doc
	return s
}

// adopt takes over the hidden marks and frames of a tree being attached.
// Callers hold mu or own s exclusively.
func (s *Session) adopt(st *buildState) {
	s.st.absorb(st)
	for iframe, doc := range s.st.resolve().frames {
		s.hosts[doc] = iframe
	}
}

// attached reports whether h is reachable from an open window, through
// the iframes hosting its document if there are any.
func (s *Session) attached(h *html.Node) bool {
	r := root(h)
	if r.Type != html.DocumentNode {
		return false
	}
	if host, ok := s.hosts[r]; ok {
		return s.attached(host)
	}
	return s.open[r]
}

// displayed reports whether neither h nor an ancestor is hidden.
func (s *Session) displayed(h *html.Node) bool {
	hidden := s.st.resolve().hidden
	for n := h; n != nil; n = n.Parent {
		if hidden[n] {
			return false
		}
	}
	return true
}

// visibleText concatenates the text under h, skipping hidden elements.
func (s *Session) visibleText(h *html.Node) string {
	hidden := s.st.resolve().hidden
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				b.WriteString(c.Data)
			case c.Type == html.ElementNode && !hidden[c]:
				walk(c)
			}
		}
	}
	walk(h)
	return b.String()
}

// Calls returns how many session and element operations have run.
func (s *Session) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// InjectError makes the next operation fail with err. Several injected
// errors are returned in order.
func (s *Session) InjectError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.injected = append(s.injected, err)
}

// begin counts an operation and pops an injected error. Callers hold mu.
func (s *Session) begin() error {
	s.calls++
	if len(s.injected) == 0 {
		return nil
	}
	err := s.injected[0]
	s.injected = s.injected[1:]
	return err
}

// Handle returns a plain handle to n, which may already be stale.
func (s *Session) Handle(n *Node) waitfor.Element {
	return &element{s: s, h: n.h}
}

// Append attaches child under parent.
func (s *Session) Append(parent, child *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlink(child.h)
	parent.h.AppendChild(child.h)
	s.adopt(child.st)
}

// Remove detaches n; handles to n and its descendants become stale.
func (s *Session) Remove(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlink(n.h)
}

// Replace puts repl where old was; handles to old become stale.
func (s *Session) Replace(old, repl *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent := old.h.Parent
	if parent == nil {
		return
	}
	unlink(repl.h)
	parent.InsertBefore(repl.h, old.h)
	parent.RemoveChild(old.h)
	s.adopt(repl.st)
}

// SetText changes the text of n.
func (s *Session) SetText(n *Node, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setText(n.h, text)
}

// SetAttr sets an attribute of n.
func (s *Session) SetAttr(n *Node, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setAttr(n.h, name, value)
}

// RemoveAttr deletes an attribute of n.
func (s *Session) RemoveAttr(n *Node, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeAttr(n.h, name)
}

// SetHidden changes whether n is displayed.
func (s *Session) SetHidden(n *Node, hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := n.st.resolve()
	if hidden {
		st.hidden[n.h] = true
	} else {
		delete(st.hidden, n.h)
	}
}

// Focus makes n the active element.
func (s *Session) Focus(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = n.h
}

// OpenWindow adds a window after the existing ones without focusing it.
func (s *Session) OpenWindow(handle string, body ...*Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, st := newDocument(body...)
	s.adopt(st)
	s.open[doc] = true
	s.windows = append(s.windows, &window{handle: handle, doc: doc})
}

// CloseWindow closes a window; its nodes become stale.
func (s *Session) CloseWindow(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.windows {
		if w.handle == handle {
			delete(s.open, w.doc)
			s.windows = append(s.windows[:i:i], s.windows[i+1:]...)
			return
		}
	}
}

// RaiseAlert opens a dialog with text.
func (s *Session) RaiseAlert(text string) *Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &Alert{s: s, text: text}
	s.alerts = append(s.alerts, a)
	return a
}

// HandleScript installs the function run by ExecuteScript.
func (s *Session) HandleScript(fn func(script string, args []any) (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = fn
}

func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return "session(" + s.current.handle + ")"
}

// FindElement resolves loc against the current browsing context.
func (s *Session) FindElement(loc waitfor.Locator) (waitfor.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return nil, err
	}
	return s.findOne(s.context, loc)
}

// FindElements resolves loc against the current browsing context.
func (s *Session) FindElements(loc waitfor.Locator) ([]waitfor.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return nil, err
	}
	return s.findAll(s.context, loc)
}

func (s *Session) findOne(root *html.Node, loc waitfor.Locator) (waitfor.Element, error) {
	nodes, err := query(root, loc)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", waitfor.ErrNoSuchElement, loc)
	}
	return &element{s: s, h: nodes[0]}, nil
}

func (s *Session) findAll(root *html.Node, loc waitfor.Locator) ([]waitfor.Element, error) {
	nodes, err := query(root, loc)
	if err != nil {
		return nil, err
	}
	out := make([]waitfor.Element, len(nodes))
	for i, n := range nodes {
		out[i] = &element{s: s, h: n}
	}
	return out, nil
}

// WindowHandles returns the open windows in the order they were opened.
func (s *Session) WindowHandles() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return nil, err
	}
	out := make([]string, len(s.windows))
	for i, w := range s.windows {
		out[i] = w.handle
	}
	return out, nil
}

// CurrentWindow returns the focused window handle.
func (s *Session) CurrentWindow() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return "", err
	}
	if !s.open[s.current.doc] {
		return "", fmt.Errorf("%w: %s", waitfor.ErrNoSuchWindow, s.current.handle)
	}
	return s.current.handle, nil
}

// SwitchToWindow focuses the window and its top-level document.
func (s *Session) SwitchToWindow(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return err
	}
	for _, w := range s.windows {
		if w.handle == handle {
			s.current = w
			s.context = w.doc
			return nil
		}
	}
	return fmt.Errorf("%w: %s", waitfor.ErrNoSuchWindow, handle)
}

// SwitchToFrame enters the document of an iframe element.
func (s *Session) SwitchToFrame(frame waitfor.Element) error {
	live, err := waitfor.LiveHandle(frame)
	if err != nil {
		return err
	}
	el, ok := live.(*element)
	if !ok || el.s != s {
		return errors.New("waitfortest: frame handle belongs to another session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return err
	}
	if !s.attached(el.h) {
		return fmt.Errorf("%w: %s", waitfor.ErrStaleElement, describe(el.h))
	}
	doc, ok := s.st.resolve().frames[el.h]
	if !ok {
		return fmt.Errorf("%w: %s", waitfor.ErrNoSuchFrame, describe(el.h))
	}
	s.context = doc
	return nil
}

// SwitchToDefaultContent returns to the top-level document.
func (s *Session) SwitchToDefaultContent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return err
	}
	s.context = s.current.doc
	return nil
}

// InFrame reports whether locators currently resolve inside a frame.
func (s *Session) InFrame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.hosts[s.context]
	return ok
}

// Alert returns the oldest open dialog.
func (s *Session) Alert() (waitfor.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return nil, err
	}
	if len(s.alerts) == 0 {
		return nil, waitfor.ErrNoAlert
	}
	return s.alerts[0], nil
}

// ActiveElement returns the focused node.
func (s *Session) ActiveElement() (waitfor.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return nil, err
	}
	if s.active == nil || !s.attached(s.active) {
		return nil, fmt.Errorf("%w: no focused element", waitfor.ErrNoSuchElement)
	}
	return &element{s: s, h: s.active}, nil
}

// ExecuteScript calls the handler installed with HandleScript.
func (s *Session) ExecuteScript(script string, args ...any) (any, error) {
	s.mu.Lock()
	fn := s.script
	err := s.begin()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, errors.New("waitfortest: no script handler installed")
	}
	return fn(script, args)
}

// Alert is an in-memory dialog.
type Alert struct {
	s        *Session
	text     string
	accepted bool
	closed   bool
}

// Text returns the dialog message.
func (a *Alert) Text() (string, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.text, nil
}

// Accept closes the dialog as accepted.
func (a *Alert) Accept() error {
	return a.close(true)
}

// Dismiss closes the dialog as dismissed.
func (a *Alert) Dismiss() error {
	return a.close(false)
}

// Accepted reports whether the dialog was accepted.
func (a *Alert) Accepted() bool {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.accepted
}

func (a *Alert) close(accept bool) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if a.closed {
		return waitfor.ErrNoAlert
	}
	a.closed = true
	a.accepted = accept
	for i, open := range a.s.alerts {
		if open == a {
			a.s.alerts = append(a.s.alerts[:i:i], a.s.alerts[i+1:]...)
			break
		}
	}
	return nil
}
