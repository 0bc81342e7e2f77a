package roddriver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"object gone", cdp.ErrObjNotFound, waitfor.ErrStaleElement},
		{"context destroyed", fmt.Errorf("eval: %w", cdp.ErrCtxDestroyed), waitfor.ErrStaleElement},
		{"context not found", cdp.ErrCtxNotFound, waitfor.ErrStaleElement},
		{"rod object not found", &rod.ObjectNotFoundError{}, waitfor.ErrStaleElement},
		{"element not found", &rod.ElementNotFoundError{}, waitfor.ErrNoSuchElement},
		{"session gone", cdp.ErrSessionNotFound, waitfor.ErrNoSuchWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "original error stays in the chain")
			assert.True(t, waitfor.IsTransient(got))
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	assert.NoError(t, mapError(nil))

	for _, err := range []error{
		context.DeadlineExceeded,
		errors.New("eval js error: ReferenceError: x is not defined"),
	} {
		got := mapError(err)
		assert.Equal(t, err, got)
		assert.False(t, waitfor.IsTransient(got))
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		loc   waitfor.Locator
		css   string
		xpath string
	}{
		{loc: waitfor.CSS("#list > li"), css: "#list > li"},
		{loc: waitfor.XPath("*[1]"), xpath: "*[1]"},
		{loc: waitfor.ID("region"), css: `[id="region"]`},
		{loc: waitfor.ID(`we"ird`), css: `[id="we\"ird"]`},
		{loc: waitfor.Name("q"), css: `[name="q"]`},
		{loc: waitfor.Tag("iframe"), css: "iframe"},
	}
	for _, tt := range tests {
		t.Run(tt.loc.String(), func(t *testing.T) {
			q, err := compile(tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.css, q.css)
			assert.Equal(t, tt.xpath, q.xpath)
		})
	}

	_, err := compile(waitfor.Locator{By: "link text", Value: "Home"})
	assert.ErrorContains(t, err, "unsupported locator")
}
