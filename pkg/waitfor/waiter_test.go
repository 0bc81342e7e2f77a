package waitfor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/pagewait/pkg/waitfor"
	"github.com/thesyncim/pagewait/pkg/waitfor/waitfortest"
)

func TestNewWaiter(t *testing.T) {
	_, err := waitfor.NewWaiter(nil, nil)
	assert.Error(t, err)

	sess := waitfortest.New()
	w, err := waitfor.NewWaiter(sess, nil)
	require.NoError(t, err)
	assert.Same(t, sess, w.Session())
	assert.Equal(t, waitfor.DefaultTimeout, w.Poller().Timeout())
}

func TestAwait(t *testing.T) {
	p, clk := newPoller(t)
	status := waitfortest.E("span", "id", "status").WithText("idle")
	sess := waitfortest.New(status)
	w, err := waitfor.NewWaiter(sess, p)
	require.NoError(t, err)

	start := clk.Now()
	clk.OnSleep = func(n int) {
		if n == 1 {
			sess.SetText(status, "ready")
		}
	}

	ok, err := waitfor.Await(context.Background(), w,
		waitfor.TextToEqualInElement(nil, waitfor.ID("status"), "ready"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, clk.Now().Sub(start))
}

func TestExpectation_BaselineBeforeAction(t *testing.T) {
	p, _ := newPoller(t)
	sess := waitfortest.New(waitfortest.E("a", "id", "open-popup"))
	w, err := waitfor.NewWaiter(sess, p)
	require.NoError(t, err)

	popup := waitfor.Expect(w, waitfor.NewWindowOpenedAndSwitchedTo(w.Session()))
	// The click that opens the popup.
	sess.OpenWindow("popup", waitfortest.E("h1").WithText("Popup"))

	handle, err := popup.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "popup", handle)
	assert.Contains(t, popup.Condition().String(), "baseline: [window-1]")
}
