// Package middleware contains the HTTP middleware stack: request id
// and context enrichment, request logging, tracing, the global error
// handler, and the session-based authentication and ownership guards.
package middleware
