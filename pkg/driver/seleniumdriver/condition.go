package seleniumdriver

import (
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// Condition adapts c for selenium's own Wait helpers. The result is
// written to dst on success. Fatal evaluations stop the wait with an
// error; pending and transient ones keep it polling.
//
//	var el waitfor.Element
//	err := wd.WaitWithTimeout(seleniumdriver.Condition(s, waitfor.VisibilityOfElementLocated(nil, loc), &el), 10*time.Second)
func Condition[T any](s *Session, c waitfor.Condition[T], dst *T) selenium.Condition {
	return func(selenium.WebDriver) (bool, error) {
		ev := c.Evaluate(s)
		switch ev.Outcome {
		case waitfor.Ready:
			if dst != nil {
				*dst = ev.Value
			}
			return true, nil
		case waitfor.Fatal:
			return false, fmt.Errorf("selenium: %s: %w", c, ev.Err)
		default:
			return false, nil
		}
	}
}
