package router

import (
	"net/http"

	"github.com/deppfellow/yelpcamp/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the
// business logic: the welcome page, health status, docs UI, and the
// static assets backing it.
func registerSystemRoutes(e *echo.Echo, h *handler.Handlers) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"name":    "yelpcamp",
			"message": "Welcome to YelpCamp!",
		})
	})

	// Health status endpoint (used by load balancers / monitors).
	e.GET("/status", h.Health.CheckHealth)

	// Serve ./static at /static/* (openapi.json and docs assets).
	e.Static("/static", "static")

	// Docs UI endpoint (serves openapi.html).
	e.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
