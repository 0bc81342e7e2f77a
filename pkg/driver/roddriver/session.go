// Package roddriver adapts a go-rod browser to waitfor.Session.
//
// Windows are page targets and their handles are target IDs. Frames are
// entered with Element.Frame. JavaScript dialogs are tracked from
// Page.javascriptDialogOpening events, because a page with an open dialog
// does not answer Runtime calls.
package roddriver

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for dialog and window events.
func WithLogger(l logr.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// Session is a waitfor.Session over a rod browser. It is safe for
// concurrent use, though the focused window and frame are shared by all
// callers.
type Session struct {
	browser *rod.Browser
	log     logr.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	page    *rod.Page // focused window
	context *rod.Page // page or frame that locators resolve against
	dialogs map[proto.TargetTargetID]*dialog
}

var _ waitfor.Session = (*Session)(nil)

// New wraps browser with page as the focused window. Close stops the
// event listeners; it does not close the browser.
func New(browser *rod.Browser, page *rod.Page, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		browser: browser,
		log:     logr.Discard(),
		ctx:     ctx,
		cancel:  cancel,
		page:    page,
		context: page,
		dialogs: make(map[proto.TargetTargetID]*dialog),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.watch(page)
	s.watchNewPages()
	return s
}

// watchNewPages tracks dialogs of windows opened after New, so a popup
// that alerts before anyone switches to it still reports the dialog.
func (s *Session) watchNewPages() {
	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(s.browser); err != nil {
		s.log.Error(err, "target discovery unavailable, new windows are watched on switch")
		return
	}
	wait := s.browser.Context(s.ctx).EachEvent(func(e *proto.TargetTargetCreated) {
		if e.TargetInfo.Type != proto.TargetTargetInfoTypePage {
			return
		}
		id := e.TargetInfo.TargetID
		go func() {
			page, err := s.browser.PageFromTarget(id)
			if err != nil {
				s.log.V(1).Info("cannot attach to new window", "target", id, "error", err.Error())
				return
			}
			s.log.V(1).Info("window opened", "target", id)
			s.watch(page)
		}()
	})
	go wait()
}

// Close stops listening for dialog events.
func (s *Session) Close() error {
	s.cancel()
	return nil
}

// Page returns the focused window.
func (s *Session) Page() *rod.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Session) String() string {
	return fmt.Sprintf("rod(%s)", s.Page().TargetID)
}

// current returns the page or frame locators resolve against.
func (s *Session) current() *rod.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// watch starts tracking dialogs of page. Callers must not hold mu.
func (s *Session) watch(page *rod.Page) *dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.dialogs[page.TargetID]; ok {
		return d
	}
	d := &dialog{}
	s.dialogs[page.TargetID] = d

	log := s.log.WithValues("target", page.TargetID)
	wait := page.Context(s.ctx).EachEvent(
		func(e *proto.PageJavascriptDialogOpening) {
			log.V(1).Info("dialog opened", "type", e.Type, "message", e.Message)
			d.opened(e)
		},
		func(e *proto.PageJavascriptDialogClosed) {
			log.V(1).Info("dialog closed", "accepted", e.Result)
			d.closed()
		},
	)
	go wait()
	return d
}

func (s *Session) FindElement(loc waitfor.Locator) (waitfor.Element, error) {
	return s.findOne(s.current(), loc)
}

func (s *Session) FindElements(loc waitfor.Locator) ([]waitfor.Element, error) {
	return s.findAll(s.current(), loc)
}

func (s *Session) findOne(f finder, loc waitfor.Locator) (waitfor.Element, error) {
	q, err := compile(loc)
	if err != nil {
		return nil, err
	}
	found, err := q.all(f)
	if err != nil {
		return nil, mapError(err)
	}
	if found.Empty() {
		return nil, fmt.Errorf("%w: %s", waitfor.ErrNoSuchElement, loc)
	}
	return &element{s: s, el: found.First()}, nil
}

func (s *Session) findAll(f finder, loc waitfor.Locator) ([]waitfor.Element, error) {
	q, err := compile(loc)
	if err != nil {
		return nil, err
	}
	found, err := q.all(f)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]waitfor.Element, len(found))
	for i, el := range found {
		out[i] = &element{s: s, el: el}
	}
	return out, nil
}

// WindowHandles returns the target IDs of the open pages.
func (s *Session) WindowHandles() ([]string, error) {
	pages, err := s.browser.Pages()
	if err != nil {
		return nil, mapError(err)
	}
	handles := make([]string, len(pages))
	for i, p := range pages {
		handles[i] = string(p.TargetID)
	}
	return handles, nil
}

func (s *Session) CurrentWindow() (string, error) {
	id := s.Page().TargetID
	handles, err := s.WindowHandles()
	if err != nil {
		return "", err
	}
	for _, h := range handles {
		if h == string(id) {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: %s", waitfor.ErrNoSuchWindow, id)
}

// SwitchToWindow activates the page with the given target ID and resets
// the browsing context to its top-level document.
func (s *Session) SwitchToWindow(handle string) error {
	pages, err := s.browser.Pages()
	if err != nil {
		return mapError(err)
	}
	for _, p := range pages {
		if string(p.TargetID) != handle {
			continue
		}
		if _, err := p.Activate(); err != nil {
			return mapError(err)
		}
		s.watch(p)
		s.mu.Lock()
		s.page, s.context = p, p
		s.mu.Unlock()
		s.log.V(1).Info("switched window", "target", handle)
		return nil
	}
	return fmt.Errorf("%w: %s", waitfor.ErrNoSuchWindow, handle)
}

// SwitchToFrame enters the document of an iframe or frame element.
func (s *Session) SwitchToFrame(frame waitfor.Element) error {
	e, err := s.own(frame)
	if err != nil {
		return err
	}
	if err := e.connected(); err != nil {
		return err
	}
	node, err := e.el.Describe(0, false)
	if err != nil {
		return mapError(err)
	}
	if node.LocalName != "iframe" && node.LocalName != "frame" {
		return fmt.Errorf("%w: %s is a <%s>", waitfor.ErrNoSuchFrame, e.el, node.LocalName)
	}
	fr, err := e.el.Frame()
	if err != nil {
		return fmt.Errorf("%w: %w", waitfor.ErrNoSuchFrame, mapError(err))
	}
	s.mu.Lock()
	s.context = fr
	s.mu.Unlock()
	return nil
}

func (s *Session) SwitchToDefaultContent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = s.page
	return nil
}

// Alert returns the dialog open on the focused window.
func (s *Session) Alert() (waitfor.Alert, error) {
	page := s.Page()
	d := s.watch(page)
	msg, ok := d.message()
	if !ok {
		return nil, waitfor.ErrNoAlert
	}
	return &alert{page: page, d: d, text: msg}, nil
}

// ActiveElement returns the focused element of the current context.
func (s *Session) ActiveElement() (waitfor.Element, error) {
	page := s.current()
	obj, err := page.Evaluate(rod.Eval(`() => document.activeElement`).ByObject())
	if err != nil {
		return nil, mapError(err)
	}
	if obj.ObjectID == "" {
		return nil, fmt.Errorf("%w: no focused element", waitfor.ErrNoSuchElement)
	}
	el, err := page.ElementFromObject(obj)
	if err != nil {
		return nil, mapError(err)
	}
	return &element{s: s, el: el}, nil
}

// ExecuteScript runs script as the body of a function in the current
// context. Element arguments are passed by reference. The result is
// returned by value, so scripts should return JSON-serialisable data.
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
		params[i] = e.el.Object
	}
	res, err := s.current().Eval("function() {"+script+"\n}", params...)
	if err != nil {
		return nil, mapError(err)
	}
	return res.Value.Val(), nil
}

// own resolves el to a handle created by this session.
func (s *Session) own(el waitfor.Element) (*element, error) {
	live, err := waitfor.LiveHandle(el)
	if err != nil {
		return nil, err
	}
	e, ok := live.(*element)
	if !ok || e.s != s {
		return nil, fmt.Errorf("rod: element %s does not belong to this session", el)
	}
	return e, nil
}

// dialog is the dialog state of one page, updated from CDP events.
type dialog struct {
	mu   sync.Mutex
	open *proto.PageJavascriptDialogOpening
}

func (d *dialog) opened(e *proto.PageJavascriptDialogOpening) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = e
}

func (d *dialog) closed() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = nil
}

func (d *dialog) message() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open == nil {
		return "", false
	}
	return d.open.Message, true
}

type alert struct {
	page *rod.Page
	d    *dialog
	text string
}

func (a *alert) Text() (string, error) { return a.text, nil }

func (a *alert) Accept() error { return a.handle(true) }

func (a *alert) Dismiss() error { return a.handle(false) }

func (a *alert) handle(accept bool) error {
	if _, ok := a.d.message(); !ok {
		return waitfor.ErrNoAlert
	}
	if err := (proto.PageHandleJavaScriptDialog{Accept: accept}).Call(a.page); err != nil {
		return mapError(err)
	}
	a.d.closed()
	return nil
}
