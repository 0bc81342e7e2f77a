// Package waitfor provides wait conditions for browser end-to-end tests.
//
// A [Condition] is a predicate over a remote browser [Session]. [Until]
// evaluates it immediately and then on every poll interval until it is
// ready, fails, or times out:
//
//	p, err := waitfor.NewPoller(waitfor.WithTimeout(30 * time.Second))
//	if err != nil {
//		return err
//	}
//	el, err := waitfor.Until(ctx, p, session,
//		waitfor.VisibilityOfElementLocated(nil, waitfor.CSS("#results")))
//
// # Evaluations
//
// Each poll produces an [Evaluation]: Pending, Ready with a value, or
// Fatal with an error. Errors that mean the remote document is simply not
// in the awaited state yet ([ErrStaleElement], [ErrNoSuchElement],
// [ErrNoSuchFrame], [ErrNoAlert], [ErrNoSuchWindow]) make an evaluation
// Pending. Everything else is Fatal and ends the wait at once.
//
// When the timeout passes, [Until] returns a [TimeoutError] whose message
// is the condition description rendered after the last poll, so it shows
// the last text or attribute value that was read.
//
// # Refreshable handles
//
// A handle created with [NewRefreshable] re-resolves its locator on every
// call and so follows a node across re-renders. Conditions that must watch
// the node present at construction time unwrap it with [Element.Live].
//
// # Two-phase updates
//
// [UpdateOfElementLocated], [UpdateOfElement] and [UpdateFromElementTo]
// first wait for the old node to be detached and only then check the new
// state. Without the first phase a poll cannot tell "not re-rendered yet"
// from "re-rendered already". [DynamicUpdate] builds on them for regions
// whose content is replaced in place.
//
// # Drivers
//
// Sessions are provided by package roddriver (Chrome DevTools Protocol) and
// package seleniumdriver (WebDriver). Package waitfortest provides an
// in-memory session for unit tests.
package waitfor
