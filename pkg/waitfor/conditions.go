package waitfor

import (
	"fmt"
	"slices"
	"strings"
)

// visible returns el if it is displayed.
func visible(el Element) Evaluation[Element] {
	shown, err := el.Displayed()
	if err != nil {
		return classify[Element](err)
	}
	if !shown {
		return NotYet[Element]()
	}
	return Done(el)
}

// visibleLocated resolves loc under ctx and returns the match if it is
// displayed.
func visibleLocated(ctx SearchContext, loc Locator) Evaluation[Element] {
	el, err := ctx.FindElement(loc)
	if err != nil {
		return classify[Element](err)
	}
	return visible(el)
}

// contextOr returns ctx, or s when ctx is nil.
func contextOr(ctx SearchContext, s Session) SearchContext {
	if ctx == nil {
		return s
	}
	return ctx
}

// VisibilityOfElementLocated waits for loc to resolve under ctx to a
// displayed element and returns it. A nil ctx searches the session.
func VisibilityOfElementLocated(ctx SearchContext, loc Locator) Condition[Element] {
	const name = "visibilityOfElementLocated"
	return NewCondition(name, func(s Session) Evaluation[Element] {
		return visibleLocated(contextOr(ctx, s), loc)
	}, func() string {
		return fmt.Sprintf("%s %v:%s", name, ctx, loc)
	})
}

// VisibilityOf waits for element to be displayed.
func VisibilityOf(element Element) Condition[Element] {
	const name = "visibilityOf"
	return NewCondition(name, func(Session) Evaluation[Element] {
		return visible(element)
	}, func() string {
		return fmt.Sprintf("%s %s", name, element)
	})
}

// PresenceOfElement waits for element to answer a liveness check.
// Transient errors keep it polling.
func PresenceOfElement(element Element) Condition[Element] {
	const name = "presenceOfElement"
	return NewCondition(name, func(Session) Evaluation[Element] {
		if _, err := element.Displayed(); err != nil {
			return classify[Element](err)
		}
		return Done(element)
	}, func() string {
		return fmt.Sprintf("%s %s", name, element)
	})
}

// StalenessOrNonPresenceOf waits for the node element refers to now to be
// detached or gone.
func StalenessOrNonPresenceOf(element Element) Condition[bool] {
	const name = "stalenessOrNonPresenceOf"
	watched, err := LiveHandle(element)
	if err != nil {
		if isStale(err) {
			// Nothing resolves: already absent.
			return NewCondition(name, func(Session) Evaluation[bool] { return Done(true) }, func() string {
				return fmt.Sprintf("%s %s", name, element)
			})
		}
		return failed[bool](name, err)
	}
	return NewCondition(name, func(Session) Evaluation[bool] {
		_, err := watched.Displayed()
		switch {
		case err == nil:
			return NotYet[bool]()
		case isStale(err):
			return Done(true)
		default:
			return classify[bool](err)
		}
	}, func() string {
		return fmt.Sprintf("%s %s", name, watched)
	})
}

// ElementTextToBe waits for the text of element to equal text.
func ElementTextToBe(element Element, text string) Condition[Element] {
	const name = "elementTextToBe"
	var last string
	return NewCondition(name, func(Session) Evaluation[Element] {
		got, err := element.Text()
		if err != nil {
			return classify[Element](err)
		}
		last = got
		if got != text {
			return NotYet[Element]()
		}
		return Done(element)
	}, func() string {
		return fmt.Sprintf("%s %s '%s' (last: '%s')", name, element, text, last)
	})
}

// TextToEqualInElement waits for the element loc resolves to under ctx to
// have exactly text. A nil ctx searches the session.
func TextToEqualInElement(ctx SearchContext, loc Locator, text string) Condition[bool] {
	const name = "textToEqualInElement"
	var last string
	return NewCondition(name, func(s Session) Evaluation[bool] {
		el, err := contextOr(ctx, s).FindElement(loc)
		if err != nil {
			return classify[bool](err)
		}
		got, err := el.Text()
		if err != nil {
			return classify[bool](err)
		}
		last = got
		if got != text {
			return NotYet[bool]()
		}
		return Done(true)
	}, func() string {
		return fmt.Sprintf("text ('%s') (last: '%s') to match in element found by %v:%s", text, last, ctx, loc)
	})
}

// TextToBePresentInElement waits for the text of element to contain text.
func TextToBePresentInElement(element Element, text string) Condition[bool] {
	const name = "textToBePresentInElement"
	var last string
	return NewCondition(name, func(Session) Evaluation[bool] {
		got, err := element.Text()
		if err != nil {
			return classify[bool](err)
		}
		last = got
		if !strings.Contains(got, text) {
			return NotYet[bool]()
		}
		return Done(true)
	}, func() string {
		return fmt.Sprintf("text ('%s') (last: '%s') to match in element %s", text, last, element)
	})
}

// ElementAttributeToBe waits for attribute of element to equal value.
// A missing attribute reads as the empty string.
func ElementAttributeToBe(element Element, attribute, value string) Condition[Element] {
	const name = "elementAttributeToBe"
	var last string
	return NewCondition(name, func(Session) Evaluation[Element] {
		got, _, err := element.Attribute(attribute)
		if err != nil {
			return classify[Element](err)
		}
		last = got
		if got != value {
			return NotYet[Element]()
		}
		return Done(element)
	}, func() string {
		return fmt.Sprintf("attribute '%s' = '%s' (last: '%s') in element %s", attribute, value, last, element)
	})
}

// ElementAttributeToContain waits for attribute of element to be non-empty
// and contain value. An empty or missing attribute never matches, even for
// an empty value. A refreshable element is unwrapped at construction.
func ElementAttributeToContain(element Element, attribute, value string) Condition[Element] {
	const name = "elementAttributeToContain"
	watched, err := LiveHandle(element)
	if err != nil {
		return failed[Element](name, err)
	}
	var last string
	return NewCondition(name, func(Session) Evaluation[Element] {
		got, _, err := watched.Attribute(attribute)
		if err != nil {
			return classify[Element](err)
		}
		last = got
		if got == "" || !strings.Contains(got, value) {
			return NotYet[Element]()
		}
		return Done(element)
	}, func() string {
		return fmt.Sprintf("attribute '%s' contains '%s' (last: '%s') in element %s", attribute, value, last, element)
	})
}

// InvisibilityOf waits for element to be hidden, detached or gone.
func InvisibilityOf(element Element) Condition[Element] {
	const name = "invisibilityOf"
	return NewCondition(name, func(Session) Evaluation[Element] {
		shown, err := element.Displayed()
		if err != nil {
			if isStale(err) {
				return Done(element)
			}
			return classify[Element](err)
		}
		if shown {
			return NotYet[Element]()
		}
		return Done(element)
	}, func() string {
		return fmt.Sprintf("invisibility of %s", element)
	})
}

// InvisibilityOfElementLocated waits until loc resolves under ctx to
// nothing, or to an element that is hidden. A nil ctx searches the session.
func InvisibilityOfElementLocated(ctx SearchContext, loc Locator) Condition[bool] {
	const name = "invisibilityOfElementLocated"
	return NewCondition(name, func(s Session) Evaluation[bool] {
		el, err := contextOr(ctx, s).FindElement(loc)
		if err != nil {
			if isStale(err) {
				return Done(true)
			}
			return classify[bool](err)
		}
		shown, err := el.Displayed()
		if err != nil {
			if isStale(err) {
				return Done(true)
			}
			return classify[bool](err)
		}
		if shown {
			return NotYet[bool]()
		}
		return Done(true)
	}, func() string {
		return fmt.Sprintf("element to no longer be visible: %s", loc)
	})
}

// FrameToBeAvailableAndSwitchToIt returns to the top-level document,
// locates the frame under ctx and switches into it. The caller is
// responsible for switching back. A nil ctx searches the session.
func FrameToBeAvailableAndSwitchToIt(ctx SearchContext, loc Locator) Condition[Session] {
	const name = "frameToBeAvailableAndSwitchToIt"
	return NewCondition(name, func(s Session) Evaluation[Session] {
		if err := s.SwitchToDefaultContent(); err != nil {
			return classify[Session](err)
		}
		frame, err := contextOr(ctx, s).FindElement(loc)
		if err != nil {
			return classify[Session](err)
		}
		if err := s.SwitchToFrame(frame); err != nil {
			return classify[Session](err)
		}
		return Done(s)
	}, func() string {
		return fmt.Sprintf("frame to be available: %v:%s", ctx, loc)
	})
}

// NewWindowOpenedAndSwitchedTo captures the open windows of s now and
// waits for a window outside that baseline. It switches to the first new
// handle in session order and returns it. Build it before the action
// that opens the window.
func NewWindowOpenedAndSwitchedTo(s Session) Condition[string] {
	const name = "newWindowOpenedAndSwitchedTo"
	baseline, err := s.WindowHandles()
	if err != nil {
		return failed[string](name, err)
	}
	var last []string
	return NewCondition(name, func(s Session) Evaluation[string] {
		current, err := s.WindowHandles()
		if err != nil {
			return classify[string](err)
		}
		last = current
		for _, h := range current {
			if slices.Contains(baseline, h) {
				continue
			}
			if err := s.SwitchToWindow(h); err != nil {
				return classify[string](err)
			}
			return Done(h)
		}
		return NotYet[string]()
	}, func() string {
		return fmt.Sprintf("new window opened (baseline: %v, last: %v)", baseline, last)
	})
}

// NumberOfElementsLocated waits for loc to resolve under ctx to exactly
// count elements and returns them. A nil ctx searches the session.
func NumberOfElementsLocated(ctx SearchContext, loc Locator, count int) Condition[[]Element] {
	const name = "numberOfElementsLocated"
	last := -1
	return NewCondition(name, func(s Session) Evaluation[[]Element] {
		elems, err := contextOr(ctx, s).FindElements(loc)
		if err != nil {
			return classify[[]Element](err)
		}
		last = len(elems)
		if len(elems) != count {
			return NotYet[[]Element]()
		}
		return Done(elems)
	}, func() string {
		return fmt.Sprintf("%s %v by:%s count:%d (last: %d)", name, ctx, loc, count, last)
	})
}

// ChildCount waits for element to have exactly count element children.
func ChildCount(element Element, count int) Condition[bool] {
	const name = "childCount"
	last := -1
	return NewCondition(name, func(Session) Evaluation[bool] {
		children, err := element.FindElements(childElements)
		if err != nil {
			return classify[bool](err)
		}
		last = len(children)
		if len(children) != count {
			return NotYet[bool]()
		}
		return Done(true)
	}, func() string {
		return fmt.Sprintf("%s of %s to be %d (last: %d)", name, element, count, last)
	})
}

// ElementIsFocused waits for element to be the active element.
func ElementIsFocused(element Element) Condition[Element] {
	const name = "elementIsFocused"
	return NewCondition(name, func(s Session) Evaluation[Element] {
		active, err := s.ActiveElement()
		if err != nil {
			return classify[Element](err)
		}
		same, err := element.Equal(active)
		if err != nil {
			return classify[Element](err)
		}
		if !same {
			return NotYet[Element]()
		}
		return Done(element)
	}, func() string {
		return fmt.Sprintf("element %s to be focused", element)
	})
}

// AcceptAlert waits for a dialog, accepts it and returns it.
func AcceptAlert() Condition[Alert] {
	const name = "acceptAlert"
	return NewCondition(name, func(s Session) Evaluation[Alert] {
		a, err := s.Alert()
		if err != nil {
			return classify[Alert](err)
		}
		if err := a.Accept(); err != nil {
			return classify[Alert](err)
		}
		return Done(a)
	}, func() string {
		return "alert to be present and accept"
	})
}
