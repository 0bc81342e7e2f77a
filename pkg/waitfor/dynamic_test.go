package waitfor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/pagewait/pkg/waitfor"
	"github.com/thesyncim/pagewait/pkg/waitfor/waitfortest"
)

func TestDynamicUpdate_ReplacedChild(t *testing.T) {
	p, clk := newPoller(t)
	old := waitfortest.E("table").WithText("page 1")
	region := waitfortest.E("div", "id", "results").With(old)
	sess := waitfortest.New(region)

	cond := waitfor.DynamicUpdate(sess.Handle(region))
	clk.OnSleep = func(n int) {
		if n == 2 {
			sess.Replace(old, waitfortest.E("table").WithText("page 2"))
		}
	}

	el, err := waitfor.Until(context.Background(), p, sess, cond)
	require.NoError(t, err)
	assert.Equal(t, 2, clk.Sleeps())

	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "page 2", text)
}

func TestDynamicUpdate_UnchangedTimesOut(t *testing.T) {
	p, _ := newPoller(t)
	region := waitfortest.E("div", "id", "results").With(waitfortest.E("table"))
	sess := waitfortest.New(region)

	_, err := waitfor.Until(context.Background(), p, sess, waitfor.DynamicUpdate(sess.Handle(region)))
	assert.ErrorIs(t, err, waitfor.ErrTimeout)
}

func TestDynamicUpdate_EmptyRegion(t *testing.T) {
	p, clk := newPoller(t)
	region := waitfortest.E("div", "id", "results")
	sess := waitfortest.New(region)

	cond := waitfor.DynamicUpdate(sess.Handle(region))
	clk.OnSleep = func(n int) {
		if n == 1 {
			sess.Append(region, waitfortest.E("table").WithText("rows"))
		}
	}

	el, err := waitfor.Until(context.Background(), p, sess, cond)
	require.NoError(t, err)
	assert.Equal(t, 1, clk.Sleeps())
	assert.Equal(t, "visibilityOfElementLocated", cond.Name())

	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "rows", text)
}

func TestDynamicUpdateExpect(t *testing.T) {
	p, clk := newPoller(t)
	old := waitfortest.E("p").WithText("loading")
	region := waitfortest.E("div", "id", "results").With(old)
	sess := waitfortest.New(region)

	expected := waitfor.NewRefreshable(sess, waitfor.CSS("#results .done"))
	cond := waitfor.DynamicUpdateExpect(sess.Handle(region), expected)
	clk.OnSleep = func(n int) {
		if n == 1 {
			sess.Replace(old, waitfortest.E("p", "class", "done").WithText("finished"))
		}
	}

	el, err := waitfor.Until(context.Background(), p, sess, cond)
	require.NoError(t, err)
	assert.Same(t, expected, el)
}

func TestDynamicUpdateExpect_EmptyRegion(t *testing.T) {
	p, clk := newPoller(t)
	region := waitfortest.E("div", "id", "results")
	banner := waitfortest.E("div", "id", "banner").Hidden()
	sess := waitfortest.New(region, banner)

	cond := waitfor.DynamicUpdateExpect(sess.Handle(region), sess.Handle(banner))
	clk.OnSleep = func(n int) {
		if n == 2 {
			sess.SetHidden(banner, false)
		}
	}

	_, err := waitfor.Until(context.Background(), p, sess, cond)
	require.NoError(t, err)
	assert.Equal(t, 2, clk.Sleeps())
	assert.Equal(t, "visibilityOf", cond.Name())
}

func TestDynamicUpdateEmpty(t *testing.T) {
	p, clk := newPoller(t)
	row := waitfortest.E("tr")
	region := waitfortest.E("tbody", "id", "rows").With(row)
	sess := waitfortest.New(region)

	clk.OnSleep = func(n int) {
		if n == 3 {
			sess.Remove(row)
		}
	}

	ok, err := waitfor.Until(context.Background(), p, sess, waitfor.DynamicUpdateEmpty(sess.Handle(region)))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, clk.Sleeps())
}

func TestDynamicUpdateEmpty_HiddenChildCounts(t *testing.T) {
	p, clk := newPoller(t)
	region := waitfortest.E("div", "id", "toast").With(waitfortest.E("span").Hidden())
	sess := waitfortest.New(region)

	ok, err := waitfor.Until(context.Background(), p, sess, waitfor.DynamicUpdateEmpty(sess.Handle(region)))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, clk.Sleeps())
}
