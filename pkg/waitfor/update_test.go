package waitfor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/pagewait/pkg/waitfor"
	"github.com/thesyncim/pagewait/pkg/waitfor/waitfortest"
)

func TestUpdateOfElementLocated(t *testing.T) {
	p, clk := newPoller(t)
	old := waitfortest.E("p", "id", "result").WithText("old")
	sess := waitfortest.New(waitfortest.E("div", "id", "region").With(old))

	repl := waitfortest.E("p", "id", "result").WithText("new")
	clk.OnSleep = func(n int) {
		if n == 2 {
			sess.Replace(old, repl)
		}
	}

	el, err := waitfor.Until(context.Background(), p, sess,
		waitfor.UpdateOfElementLocated(sess.Handle(old), nil, waitfor.ID("result")))
	require.NoError(t, err)
	assert.Equal(t, 2, clk.Sleeps())

	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "new", text)
}

func TestUpdateOfElementLocated_NoStalenessTimesOut(t *testing.T) {
	p, _ := newPoller(t)
	old := waitfortest.E("p", "id", "result").WithText("old")
	// A matching visible element exists the whole time, but the old node
	// never goes stale.
	sess := waitfortest.New(old, waitfortest.E("p", "class", "fresh"))

	cond := waitfor.UpdateOfElementLocated(sess.Handle(old), nil, waitfor.CSS(".fresh"))
	_, err := waitfor.Until(context.Background(), p, sess, cond)

	var te *waitfor.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 11, te.Attempts)
	assert.Contains(t, te.Condition, "[awaiting staleness]")
}

func TestUpdateOfElementLocated_UnresolvedRefreshable(t *testing.T) {
	p, _ := newPoller(t)
	sess := waitfortest.New(waitfortest.E("p", "class", "fresh"))

	// A refreshable whose locator matches nothing cannot be watched.
	cond := waitfor.UpdateOfElementLocated(waitfor.NewRefreshable(sess, waitfor.ID("gone")), nil, waitfor.CSS(".fresh"))
	_, err := waitfor.Until(context.Background(), p, sess, cond)
	assert.ErrorIs(t, err, waitfor.ErrNoSuchElement)
	assert.NotErrorIs(t, err, waitfor.ErrTimeout)
	assert.Contains(t, cond.String(), "construction failed")
}

func TestUpdateOfElementLocated_PhaseIsSticky(t *testing.T) {
	p, clk := newPoller(t)
	region := waitfortest.E("div", "id", "region")
	old := waitfortest.E("p", "id", "result")
	sess := waitfortest.New(region.With(old))

	repl := waitfortest.E("p", "id", "result").Hidden()
	clk.OnSleep = func(n int) {
		switch n {
		case 1:
			sess.Replace(old, repl)
		case 3:
			// The old node comes back; staleness was already observed.
			sess.Append(region, old)
		case 4:
			sess.SetHidden(repl, false)
		}
	}

	cond := waitfor.UpdateOfElementLocated(sess.Handle(old), nil, waitfor.ID("result"))
	el, err := waitfor.Until(context.Background(), p, sess, cond)
	require.NoError(t, err)
	assert.Equal(t, 4, clk.Sleeps())
	assert.Contains(t, cond.String(), "[awaiting new state]")

	same, err := el.Equal(sess.Handle(repl))
	require.NoError(t, err)
	assert.True(t, same)
}

func TestUpdateOfElementLocated_ProbeErrorIsFatal(t *testing.T) {
	p, clk := newPoller(t)
	old := waitfortest.E("p", "id", "result")
	sess := waitfortest.New(old)
	handle := sess.Handle(old)

	cond := waitfor.UpdateOfElementLocated(handle, nil, waitfor.ID("result"))
	boom := errors.New("target crashed")
	sess.InjectError(boom)

	_, err := waitfor.Until(context.Background(), p, sess, cond)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, clk.Sleeps())
}

func TestUpdateOfElement_RequiresRefreshable(t *testing.T) {
	p, clk := newPoller(t)
	node := waitfortest.E("p", "id", "result")
	sess := waitfortest.New(node)

	_, err := waitfor.Until(context.Background(), p, sess, waitfor.UpdateOfElement(sess.Handle(node)))
	assert.ErrorIs(t, err, waitfor.ErrNotRefreshable)
	assert.NotErrorIs(t, err, waitfor.ErrTimeout)
	assert.Equal(t, 0, clk.Sleeps())

	_, err = waitfor.Until(context.Background(), p, sess,
		waitfor.UpdateFromElementTo(sess.Handle(node), sess.Handle(node)))
	assert.ErrorIs(t, err, waitfor.ErrNotRefreshable)
}

func TestUpdateOfElement(t *testing.T) {
	p, clk := newPoller(t)
	old := waitfortest.E("li", "id", "row-1").WithText("pending")
	list := waitfortest.E("ul").With(old)
	sess := waitfortest.New(list)
	ref := waitfor.NewRefreshable(sess, waitfor.ID("row-1"))

	cond := waitfor.UpdateOfElement(ref)

	repl := waitfortest.E("li", "id", "row-1").WithText("saved")
	clk.OnSleep = func(n int) {
		if n == 3 {
			sess.Replace(old, repl)
		}
	}

	el, err := waitfor.Until(context.Background(), p, sess, cond)
	require.NoError(t, err)
	assert.Same(t, ref, el)
	assert.Equal(t, 3, clk.Sleeps())

	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "saved", text)
}

func TestUpdateOfElement_RemovedWithoutReplacement(t *testing.T) {
	p, clk := newPoller(t)
	old := waitfortest.E("li", "id", "row-1")
	sess := waitfortest.New(waitfortest.E("ul").With(old))
	ref := waitfor.NewRefreshable(sess, waitfor.ID("row-1"))

	cond := waitfor.UpdateOfElement(ref)
	clk.OnSleep = func(n int) {
		if n == 1 {
			sess.Remove(old)
		}
	}

	_, err := waitfor.Until(context.Background(), p, sess, cond)
	var te *waitfor.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, te.Last, waitfor.ErrNoSuchElement)
	assert.Contains(t, te.Condition, "[awaiting new state]")
}

func TestUpdateFromElementTo(t *testing.T) {
	p, clk := newPoller(t)
	spinner := waitfortest.E("span", "id", "spinner")
	done := waitfortest.E("span", "id", "done").Hidden()
	region := waitfortest.E("div", "id", "region").With(spinner)
	sess := waitfortest.New(region, done)

	cond := waitfor.UpdateFromElementTo(
		waitfor.NewRefreshable(sess, waitfor.ID("spinner")),
		waitfor.NewRefreshable(sess, waitfor.ID("done")),
	)
	clk.OnSleep = func(n int) {
		switch n {
		case 1:
			sess.Remove(spinner)
		case 2:
			sess.SetHidden(done, false)
		}
	}

	el, err := waitfor.Until(context.Background(), p, sess, cond)
	require.NoError(t, err)
	assert.Equal(t, 2, clk.Sleeps())

	same, err := el.Equal(sess.Handle(done))
	require.NoError(t, err)
	assert.True(t, same)
}
