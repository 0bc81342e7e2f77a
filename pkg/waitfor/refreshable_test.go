package waitfor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/pagewait/pkg/waitfor"
	"github.com/thesyncim/pagewait/pkg/waitfor/waitfortest"
)

func TestRefreshable_FollowsReplacement(t *testing.T) {
	old := waitfortest.E("span", "id", "clock", "data-tick", "1").WithText("10:00")
	sess := waitfortest.New(old)

	ref := waitfor.NewRefreshable(sess, waitfor.ID("clock"))
	plain := sess.Handle(old)
	assert.True(t, ref.Refreshable())
	assert.False(t, plain.Refreshable())

	sess.Replace(old, waitfortest.E("span", "id", "clock", "data-tick", "2").WithText("10:01"))

	_, err := plain.Text()
	assert.ErrorIs(t, err, waitfor.ErrStaleElement)

	text, err := ref.Text()
	require.NoError(t, err)
	assert.Equal(t, "10:01", text)

	tick, ok, err := ref.Attribute("data-tick")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", tick)
}

func TestRefreshable_NoMatch(t *testing.T) {
	sess := waitfortest.New()
	ref := waitfor.NewRefreshable(sess, waitfor.CSS(".missing"))

	_, err := ref.Displayed()
	assert.ErrorIs(t, err, waitfor.ErrNoSuchElement)
	assert.True(t, waitfor.IsTransient(err))

	_, err = ref.Live()
	assert.ErrorIs(t, err, waitfor.ErrNoSuchElement)
}

func TestRefreshable_ScopedSearch(t *testing.T) {
	form := waitfortest.E("form", "id", "login").With(
		waitfortest.E("input", "name", "user"),
		waitfortest.E("input", "name", "pass"),
	)
	sess := waitfortest.New(form)

	ref := waitfor.NewRefreshable(sess, waitfor.ID("login"))
	inputs, err := ref.FindElements(waitfor.Tag("input"))
	require.NoError(t, err)
	assert.Len(t, inputs, 2)

	pass, err := ref.FindElement(waitfor.Name("pass"))
	require.NoError(t, err)
	name, _, err := pass.Attribute("name")
	require.NoError(t, err)
	assert.Equal(t, "pass", name)
}

func TestRefreshable_NestedUnwrapsToConcrete(t *testing.T) {
	inner := waitfortest.E("li").WithText("first")
	list := waitfortest.E("ul", "id", "list").With(inner)
	sess := waitfortest.New(list)

	outer := waitfor.NewRefreshable(sess, waitfor.ID("list"))
	nested := waitfor.NewRefreshable(outer, waitfor.XPath("*[1]"))

	live, err := nested.Live()
	require.NoError(t, err)
	assert.False(t, live.Refreshable())

	same, err := live.Equal(sess.Handle(inner))
	require.NoError(t, err)
	assert.True(t, same)
	assert.Contains(t, nested.String(), "By.xpath: *[1]")
}

func TestRefreshable_EqualNil(t *testing.T) {
	sess := waitfortest.New(waitfortest.E("div", "id", "x"))
	ref := waitfor.NewRefreshable(sess, waitfor.ID("x"))

	_, err := ref.Equal(nil)
	assert.Error(t, err)
}

func TestElementIfPresent(t *testing.T) {
	node := waitfortest.E("div", "id", "x")
	sess := waitfortest.New(node)

	el, err := waitfor.ElementIfPresent(sess, waitfor.ID("x"))
	require.NoError(t, err)
	require.NotNil(t, el)
	assert.True(t, el.Refreshable())

	el, err = waitfor.ElementIfPresent(sess, waitfor.ID("y"))
	require.NoError(t, err)
	assert.Nil(t, el)

	sess.InjectError(assert.AnError)
	_, err = waitfor.ElementIfPresent(sess, waitfor.ID("x"))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLiveHandle(t *testing.T) {
	node := waitfortest.E("div", "id", "x")
	sess := waitfortest.New(node)
	plain := sess.Handle(node)

	got, err := waitfor.LiveHandle(plain)
	require.NoError(t, err)
	assert.Same(t, plain, got)

	got, err = waitfor.LiveHandle(waitfor.NewRefreshable(sess, waitfor.ID("x")))
	require.NoError(t, err)
	same, err := got.Equal(plain)
	require.NoError(t, err)
	assert.True(t, same)
}

func TestLocatorString(t *testing.T) {
	tests := []struct {
		loc  waitfor.Locator
		want string
	}{
		{waitfor.CSS("#a > b"), "By.css: #a > b"},
		{waitfor.XPath("//li"), "By.xpath: //li"},
		{waitfor.ID("main"), "By.id: main"},
		{waitfor.Name("q"), "By.name: q"},
		{waitfor.Tag("table"), "By.tag: table"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.loc.String())
	}
}
