// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/yelpcamp/internal/handler"
	"github.com/deppfellow/yelpcamp/internal/middleware"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/labstack/echo/v4"
)

// New builds the Echo instance: global middleware in order, the error
// funnel, and every route group.
//
// Middleware order matters: RequestID first so every later layer can
// correlate, New Relic before the context enhancer so trace ids reach
// the request logger, and Recover last so panics inside handlers are
// caught with full context.
func New(s *server.Server, mw *middleware.Middlewares, h *handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(middleware.RequestID())
	e.Use(mw.Tracing.NewRelicMiddleware())
	e.Use(mw.ContextEnhancer.EnhanceContext())
	e.Use(mw.Tracing.EnhanceTracing())
	e.Use(mw.Global.CORS())
	e.Use(mw.Global.Secure())
	e.Use(mw.Global.RequestLogger())
	e.Use(mw.Global.Recover())

	registerSystemRoutes(e, h)
	registerUserRoutes(e, mw, h)
	registerCampgroundRoutes(e, mw, h)

	return e
}

// registerUserRoutes wires registration, login, and logout.
func registerUserRoutes(e *echo.Echo, mw *middleware.Middlewares, h *handler.Handlers) {
	e.GET("/register", handler.Handle(h.Users.Handler, h.Users.GetRegisterPage, http.StatusOK))
	e.POST("/register", handler.HandleRedirect(h.Users.Handler, h.Users.Register))

	e.GET("/login", handler.Handle(h.Users.Handler, h.Users.GetLoginPage, http.StatusOK))
	e.POST("/login", handler.HandleRedirect(h.Users.Handler, h.Users.Login))

	e.GET("/logout", handler.HandleRedirect(h.Users.Handler, h.Users.Logout))
}

// registerCampgroundRoutes wires the campground CRUD plus the nested
// review routes. Ownership guards run after RequireAuth so the guards
// can rely on the user id being present.
func registerCampgroundRoutes(e *echo.Echo, mw *middleware.Middlewares, h *handler.Handlers) {
	g := e.Group("/campgrounds")

	g.GET("", handler.Handle(h.Campgrounds.Handler, h.Campgrounds.List, http.StatusOK))
	g.POST("", handler.HandleRedirect(h.Campgrounds.Handler, h.Campgrounds.Create), mw.Auth.RequireAuth)

	g.GET("/new", handler.Handle(h.Campgrounds.Handler, h.Campgrounds.GetNewPage, http.StatusOK), mw.Auth.RequireAuth)

	g.GET("/:id", handler.Handle(h.Campgrounds.Handler, h.Campgrounds.Show, http.StatusOK))
	g.GET("/:id/edit", handler.Handle(h.Campgrounds.Handler, h.Campgrounds.GetEditPage, http.StatusOK), mw.Auth.RequireAuth, mw.Auth.CampgroundOwner)
	g.PUT("/:id", handler.HandleRedirect(h.Campgrounds.Handler, h.Campgrounds.Update), mw.Auth.RequireAuth, mw.Auth.CampgroundOwner)
	g.DELETE("/:id", handler.HandleRedirect(h.Campgrounds.Handler, h.Campgrounds.Delete), mw.Auth.RequireAuth, mw.Auth.CampgroundOwner)

	g.POST("/:id/reviews", handler.HandleRedirect(h.Reviews.Handler, h.Reviews.Create), mw.Auth.RequireAuth)
	g.DELETE("/:id/reviews/:reviewId", handler.HandleRedirect(h.Reviews.Handler, h.Reviews.Delete), mw.Auth.RequireAuth, mw.Auth.ReviewOwner)
}
