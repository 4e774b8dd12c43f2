// Package session provides server-side sessions backed by Redis.
//
// Each browser holds a signed cookie naming a session id; the session
// record itself (user identity, post-login return-to URL) lives in a
// Redis hash, and flash messages live in per-kind Redis lists next to
// it. Records expire after the configured TTL; every write refreshes
// the expiry.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the session cookie issued to browsers.
	CookieName = "yelpcamp.sid"

	keyPrefix = "session:"

	fieldUserID   = "user_id"
	fieldReturnTo = "return_to"
)

// Manager issues session cookies and talks to the Redis store.
type Manager struct {
	redis  *redis.Client
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager constructs a session Manager.
//
// secret signs cookie values so a client cannot forge another user's
// session id. secure controls the cookie Secure flag and should be on
// outside local development.
func NewManager(rdb *redis.Client, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		redis:  rdb,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Session is a handle on one browser's session record.
type Session struct {
	id string
	m  *Manager
}

// Load returns the request's session, minting a fresh one (and setting
// the cookie) when no valid signed cookie is present.
func (m *Manager) Load(c echo.Context) *Session {
	if cookie, err := c.Cookie(CookieName); err == nil {
		if id, ok := m.verify(cookie.Value); ok {
			return &Session{id: id, m: m}
		}
	}

	id := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    m.sign(id),
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return &Session{id: id, m: m}
}

// sign produces "<id>.<hmac>" for the cookie value.
func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

// verify checks a cookie value's signature and returns the session id.
func (m *Manager) verify(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}

	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return id, true
}

// ID returns the session id (not the signed cookie value).
func (s *Session) ID() string {
	return s.id
}

func (s *Session) key() string {
	return keyPrefix + s.id
}

// UserID returns the authenticated user's id, or "" for anonymous
// sessions.
func (s *Session) UserID(ctx context.Context) (string, error) {
	userID, err := s.m.redis.HGet(ctx, s.key(), fieldUserID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// SetUser marks the session as authenticated as userID.
func (s *Session) SetUser(ctx context.Context, userID string) error {
	if err := s.m.redis.HSet(ctx, s.key(), fieldUserID, userID).Err(); err != nil {
		return err
	}
	return s.touch(ctx)
}

// ClearUser signs the session out, leaving the session record (and any
// pending flash messages) in place so the goodbye flash still renders.
func (s *Session) ClearUser(ctx context.Context) error {
	return s.m.redis.HDel(ctx, s.key(), fieldUserID).Err()
}

// SetReturnTo stores the URL to land on after the next successful
// login.
func (s *Session) SetReturnTo(ctx context.Context, url string) error {
	if err := s.m.redis.HSet(ctx, s.key(), fieldReturnTo, url).Err(); err != nil {
		return err
	}
	return s.touch(ctx)
}

// PopReturnTo returns the stored post-login URL and removes it; "" when
// none was stored.
func (s *Session) PopReturnTo(ctx context.Context) (string, error) {
	url, err := s.m.redis.HGet(ctx, s.key(), fieldReturnTo).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if err := s.m.redis.HDel(ctx, s.key(), fieldReturnTo).Err(); err != nil {
		return "", err
	}
	return url, nil
}

// touch refreshes the record expiry so active sessions do not lapse.
func (s *Session) touch(ctx context.Context) error {
	return s.m.redis.Expire(ctx, s.key(), s.m.ttl).Err()
}
