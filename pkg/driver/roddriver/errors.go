package roddriver

import (
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// mapError translates rod and CDP failures into the waitfor taxonomy.
// Errors it does not recognise are returned unchanged and are fatal to a
// wait.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var (
		notFound  *rod.ElementNotFoundError
		objectErr *rod.ObjectNotFoundError
	)
	switch {
	case errors.Is(err, cdp.ErrObjNotFound),
		errors.Is(err, cdp.ErrCtxDestroyed),
		errors.Is(err, cdp.ErrCtxNotFound),
		errors.As(err, &objectErr):
		// The remote object died with its document.
		return fmt.Errorf("%w: %w", waitfor.ErrStaleElement, err)
	case errors.As(err, &notFound):
		return fmt.Errorf("%w: %w", waitfor.ErrNoSuchElement, err)
	case errors.Is(err, cdp.ErrSessionNotFound):
		return fmt.Errorf("%w: %w", waitfor.ErrNoSuchWindow, err)
	}
	return err
}

var errDetached = errors.New("rod: node is not connected to the document")

// stale reports a node that was removed from its document while the
// remote object is still alive.
func stale(el *rod.Element) error {
	return fmt.Errorf("%w: %w: %s", waitfor.ErrStaleElement, errDetached, el)
}
