package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetUserID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	// Anonymous request: no panic, just empty.
	assert.Empty(t, GetUserID(c))

	c.Set(UserIDKey, "user-1")
	assert.Equal(t, "user-1", GetUserID(c))
}
