package handler

import (
	"github.com/deppfellow/yelpcamp/internal/errs"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/deppfellow/yelpcamp/internal/service"
	"github.com/deppfellow/yelpcamp/internal/session"
	"github.com/deppfellow/yelpcamp/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UsersHandler serves registration, login, and logout.
type UsersHandler struct {
	Handler
	services *service.Services
}

func NewUsersHandler(s *server.Server, services *service.Services) *UsersHandler {
	return &UsersHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

type RegisterPageRequest struct{}

func (r *RegisterPageRequest) Validate() error { return nil }

// GetRegisterPage renders the registration page envelope.
func (h *UsersHandler) GetRegisterPage(c echo.Context, req *RegisterPageRequest) (*Page, error) {
	return h.page(c, nil)
}

type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Username string `json:"username" form:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

func (r *RegisterRequest) Validate() error { return validate.Struct(r) }

// Register creates the account, signs the new user in, and redirects
// to the campground list.
//
// This is the one handler that catches its own store error: a
// duplicate email or username flashes the mapped message and redirects
// back to the registration page instead of bubbling up.
func (h *UsersHandler) Register(c echo.Context, req *RegisterRequest) (string, error) {
	ctx := c.Request().Context()

	user, err := h.services.Auth.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		var httpErr *errs.HTTPError
		if errors.As(sqlerr.HandleError(err), &httpErr) && httpErr.Status < 500 {
			if err := h.flash(c, session.FlashError, httpErr.Message); err != nil {
				return "", err
			}
			return "/register", nil
		}
		return "", err
	}

	sess := h.session(c)
	if err := sess.SetUser(ctx, user.ID); err != nil {
		return "", errors.Wrap(err, "failed to establish session")
	}

	if err := h.flash(c, session.FlashSuccess, "Account successfully created. Welcome to YelpCamp!"); err != nil {
		return "", err
	}
	return "/campgrounds", nil
}

type LoginPageRequest struct{}

func (r *LoginPageRequest) Validate() error { return nil }

// GetLoginPage renders the login page envelope.
func (h *UsersHandler) GetLoginPage(c echo.Context, req *LoginPageRequest) (*Page, error) {
	return h.page(c, nil)
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error { return validate.Struct(r) }

// Login verifies the credentials, establishes the session, and
// redirects to the stored return-to URL or the campground list. Failed
// logins flash the failure and land back on the login page.
func (h *UsersHandler) Login(c echo.Context, req *LoginRequest) (string, error) {
	ctx := c.Request().Context()

	user, err := h.services.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			if err := h.flash(c, session.FlashError, httpErr.Message); err != nil {
				return "", err
			}
			return "/login", nil
		}
		return "", err
	}

	sess := h.session(c)
	if err := sess.SetUser(ctx, user.ID); err != nil {
		return "", errors.Wrap(err, "failed to establish session")
	}

	if err := h.flash(c, session.FlashSuccess, "Welcome back!"); err != nil {
		return "", err
	}

	returnTo, err := sess.PopReturnTo(ctx)
	if err != nil {
		return "", err
	}
	if returnTo == "" {
		returnTo = "/campgrounds"
	}
	return returnTo, nil
}

type LogoutRequest struct{}

func (r *LogoutRequest) Validate() error { return nil }

// Logout clears the session identity and redirects to the campground
// list with a goodbye flash. The session record survives so the flash
// still renders.
func (h *UsersHandler) Logout(c echo.Context, req *LogoutRequest) (string, error) {
	sess := h.session(c)

	if err := sess.ClearUser(c.Request().Context()); err != nil {
		return "", errors.Wrap(err, "failed to clear session")
	}

	if err := h.flash(c, session.FlashSuccess, "You have been successfully logged out. Goodbye!"); err != nil {
		return "", err
	}
	return "/campgrounds", nil
}
