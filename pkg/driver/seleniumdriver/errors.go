package seleniumdriver

import (
	"errors"
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// W3C WebDriver error codes with a transient meaning.
var transientCodes = map[string]error{
	"stale element reference": waitfor.ErrStaleElement,
	"no such element":         waitfor.ErrNoSuchElement,
	"no such frame":           waitfor.ErrNoSuchFrame,
	"no such alert":           waitfor.ErrNoAlert,
	"no such window":          waitfor.ErrNoSuchWindow,
}

// mapError translates WebDriver errors into the waitfor taxonomy by their
// W3C error code. Other errors are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var wdErr *selenium.Error
	if !errors.As(err, &wdErr) {
		return err
	}
	if sentinel, ok := transientCodes[wdErr.Err]; ok {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}
