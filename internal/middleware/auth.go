package middleware

import (
	"net/http"

	"github.com/deppfellow/yelpcamp/internal/repository"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/deppfellow/yelpcamp/internal/session"
	"github.com/deppfellow/yelpcamp/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware enforces session authentication and resource
// ownership. Guards never call through on failure: they flash a
// message, redirect, and return immediately.
type AuthMiddleware struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewAuthMiddleware(s *server.Server, repos *repository.Repositories) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		repos:  repos,
	}
}

// flashAndRedirect queues an error flash and responds with a 302 to
// target, ending the middleware chain.
func (auth *AuthMiddleware) flashAndRedirect(c echo.Context, sess *session.Session, message, target string) error {
	if err := sess.Flash(c.Request().Context(), session.FlashError, message); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, target)
}

// RequireAuth rejects anonymous requests: it stores the originally
// requested URL for the post-login redirect, flashes an error, and
// redirects to the login page. Authenticated requests get their user
// id stored in Echo context for handlers and guards downstream.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sess := auth.server.Sessions.Load(c)

		userID, err := sess.UserID(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to read session")
		}

		if userID == "" {
			if err := sess.SetReturnTo(ctx, c.Request().RequestURI); err != nil {
				return errors.Wrap(err, "failed to store return-to URL")
			}
			return auth.flashAndRedirect(c, sess, "You must be signed in to access this page!", "/login")
		}

		c.Set(UserIDKey, userID)
		return next(c)
	}
}

// CampgroundOwner allows only the campground's author through. Runs
// after RequireAuth on routes with an :id param.
//
// An absent campground (or a malformed id) flashes a not-found message
// and redirects to the list; an ownership mismatch flashes and
// redirects back to the detail page.
func (auth *AuthMiddleware) CampgroundOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := auth.server.Sessions.Load(c)
		id := c.Param("id")

		if !validation.IsValidUUID(id) {
			return auth.flashAndRedirect(c, sess, "Sorry, we can't find that campground!", "/campgrounds")
		}

		campground, err := auth.repos.Campgrounds.GetByID(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return auth.flashAndRedirect(c, sess, "Sorry, we can't find that campground!", "/campgrounds")
			}
			return err
		}

		if campground.AuthorID != GetUserID(c) {
			return auth.flashAndRedirect(c, sess, "You do not have permission to do that!", "/campgrounds/"+id)
		}

		return next(c)
	}
}

// ReviewOwner allows only the review's author through. Runs after
// RequireAuth on routes with :id (campground) and :reviewId params.
func (auth *AuthMiddleware) ReviewOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := auth.server.Sessions.Load(c)
		campgroundID := c.Param("id")
		reviewID := c.Param("reviewId")

		if !validation.IsValidUUID(campgroundID) {
			return auth.flashAndRedirect(c, sess, "Sorry, we can't find that campground!", "/campgrounds")
		}
		if !validation.IsValidUUID(reviewID) {
			return auth.flashAndRedirect(c, sess, "Sorry, we can't find that review!", "/campgrounds/"+campgroundID)
		}

		review, err := auth.repos.Reviews.GetByID(c.Request().Context(), reviewID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return auth.flashAndRedirect(c, sess, "Sorry, we can't find that review!", "/campgrounds/"+campgroundID)
			}
			return err
		}

		if review.AuthorID != GetUserID(c) {
			return auth.flashAndRedirect(c, sess, "You do not have permission to do that!", "/campgrounds/"+campgroundID)
		}

		return next(c)
	}
}
