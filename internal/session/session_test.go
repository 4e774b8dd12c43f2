package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewManager(rdb, "test-secret", time.Hour, false)
}

func newTestContext(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoadMintsSessionAndSetsCookie(t *testing.T) {
	m := newTestManager(t)
	c, rec := newTestContext(t, "")

	sess := m.Load(c)
	require.NotEmpty(t, sess.ID())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	// The cookie round-trips back to the same session.
	c2, _ := newTestContext(t, cookies[0].Value)
	sess2 := m.Load(c2)
	assert.Equal(t, sess.ID(), sess2.ID())
}

func TestLoadRejectsTamperedCookie(t *testing.T) {
	m := newTestManager(t)
	c, rec := newTestContext(t, "")

	sess := m.Load(c)
	signed := rec.Result().Cookies()[0].Value

	c2, _ := newTestContext(t, signed+"tampered")
	sess2 := m.Load(c2)
	assert.NotEqual(t, sess.ID(), sess2.ID())

	// A forged cookie naming the right id but a wrong signature is
	// also rejected.
	c3, _ := newTestContext(t, sess.ID()+".deadbeef")
	sess3 := m.Load(c3)
	assert.NotEqual(t, sess.ID(), sess3.ID())
}

func TestUserLifecycle(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	c, _ := newTestContext(t, "")
	sess := m.Load(c)

	userID, err := sess.UserID(ctx)
	require.NoError(t, err)
	assert.Empty(t, userID, "fresh session should be anonymous")

	require.NoError(t, sess.SetUser(ctx, "user-1"))

	userID, err = sess.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, sess.ClearUser(ctx))

	userID, err = sess.UserID(ctx)
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestClearUserKeepsFlash(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	c, _ := newTestContext(t, "")
	sess := m.Load(c)

	require.NoError(t, sess.SetUser(ctx, "user-1"))
	require.NoError(t, sess.Flash(ctx, FlashSuccess, "You have been successfully logged out. Goodbye!"))
	require.NoError(t, sess.ClearUser(ctx))

	messages, err := sess.Flashes(ctx, FlashSuccess)
	require.NoError(t, err)
	assert.Equal(t, []string{"You have been successfully logged out. Goodbye!"}, messages)
}

func TestReturnToIsOneShot(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	c, _ := newTestContext(t, "")
	sess := m.Load(c)

	url, err := sess.PopReturnTo(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)

	require.NoError(t, sess.SetReturnTo(ctx, "/campgrounds/abc/edit"))

	url, err = sess.PopReturnTo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/campgrounds/abc/edit", url)

	url, err = sess.PopReturnTo(ctx)
	require.NoError(t, err)
	assert.Empty(t, url, "return-to should be consumed by the first pop")
}

func TestFlashesDrainOnce(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	c, _ := newTestContext(t, "")
	sess := m.Load(c)

	require.NoError(t, sess.Flash(ctx, FlashError, "first"))
	require.NoError(t, sess.Flash(ctx, FlashError, "second"))

	messages, err := sess.Flashes(ctx, FlashError)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, messages, "messages drain oldest first")

	messages, err = sess.Flashes(ctx, FlashError)
	require.NoError(t, err)
	assert.Empty(t, messages, "flash messages render exactly once")
}

func TestPopFlashesOmitsEmptyKinds(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	c, _ := newTestContext(t, "")
	sess := m.Load(c)

	require.NoError(t, sess.Flash(ctx, FlashSuccess, "Welcome back!"))

	flashes, err := sess.PopFlashes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"success": {"Welcome back!"}}, flashes)

	flashes, err = sess.PopFlashes(ctx)
	require.NoError(t, err)
	assert.Empty(t, flashes)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	c1, _ := newTestContext(t, "")
	c2, _ := newTestContext(t, "")
	sess1 := m.Load(c1)
	sess2 := m.Load(c2)

	require.NoError(t, sess1.SetUser(ctx, "user-1"))
	require.NoError(t, sess1.Flash(ctx, FlashSuccess, "hello"))

	userID, err := sess2.UserID(ctx)
	require.NoError(t, err)
	assert.Empty(t, userID)

	messages, err := sess2.Flashes(ctx, FlashSuccess)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
