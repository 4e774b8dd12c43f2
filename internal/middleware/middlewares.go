package middleware

import (
	"github.com/deppfellow/yelpcamp/internal/repository"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups all middleware components used by the HTTP
// server, wired once with their shared dependencies.
type Middlewares struct {
	// Global holds app-wide middleware: CORS, request logging,
	// recovery, secure headers, and the global error handler.
	Global *GlobalMiddlewares

	// Auth provides the session authentication and ownership guards.
	Auth *AuthMiddleware

	// ContextEnhancer enriches each request with a request-scoped
	// logger (request_id, method, path, ip, user and trace metadata).
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and transaction
	// attribute helpers.
	Tracing *TracingMiddleware
}

// NewMiddlewares constructs all middleware components. The ownership
// guards need repository access, so the repositories container is a
// dependency here alongside the application container.
func NewMiddlewares(s *server.Server, repos *repository.Repositories) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s, repos),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
	}
}
