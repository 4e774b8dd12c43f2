package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/deppfellow/yelpcamp/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestManager(t *testing.T) *session.Manager {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return session.NewManager(rdb, "test-secret", time.Hour, false)
}

func newAuthTestContext(t *testing.T, target, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireAuthRedirectsAnonymousToLogin(t *testing.T) {
	sessions := newAuthTestManager(t)
	auth := NewAuthMiddleware(&server.Server{Sessions: sessions}, nil)
	ctx := context.Background()

	c, rec := newAuthTestContext(t, "/campgrounds/new", "")

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}

	require.NoError(t, auth.RequireAuth(next)(c))
	assert.False(t, called, "handler must not run for anonymous requests")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	// The minted session carries the originally requested URL and the
	// error flash for the login page to render.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c2, _ := newAuthTestContext(t, "/", cookies[0].Value)
	sess := sessions.Load(c2)

	returnTo, err := sess.PopReturnTo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/campgrounds/new", returnTo)

	messages, err := sess.Flashes(ctx, session.FlashError)
	require.NoError(t, err)
	assert.Equal(t, []string{"You must be signed in to access this page!"}, messages)
}

func TestRequireAuthPassesAuthenticatedRequests(t *testing.T) {
	sessions := newAuthTestManager(t)
	auth := NewAuthMiddleware(&server.Server{Sessions: sessions}, nil)
	ctx := context.Background()

	seedCtx, seedRec := newAuthTestContext(t, "/", "")
	sess := sessions.Load(seedCtx)
	require.NoError(t, sess.SetUser(ctx, "user-1"))
	cookie := seedRec.Result().Cookies()[0].Value

	c, rec := newAuthTestContext(t, "/campgrounds/new", cookie)

	var seenUserID string
	next := func(c echo.Context) error {
		seenUserID = GetUserID(c)
		return c.NoContent(http.StatusOK)
	}

	require.NoError(t, auth.RequireAuth(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", seenUserID, "user id must be available downstream")
}
