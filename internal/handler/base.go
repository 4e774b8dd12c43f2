package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/yelpcamp/internal/middleware"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/deppfellow/yelpcamp/internal/session"
	"github.com/deppfellow/yelpcamp/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application
// dependencies. Concrete handlers embed it to reach config, logger,
// sessions, and the rest of *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler. Returned by value: the struct
// only holds a pointer, so copies share the same Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Page is the envelope for rendered pages: the page data plus the
// session's drained flash messages. Flash messages render exactly
// once, so building a Page consumes them.
type Page struct {
	Data  interface{}         `json:"data"`
	Flash map[string][]string `json:"flash,omitempty"`
}

// page assembles a Page envelope, draining the session's flash queues.
func (h Handler) page(c echo.Context, data interface{}) (*Page, error) {
	sess := h.server.Sessions.Load(c)

	flash, err := sess.PopFlashes(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return &Page{
		Data:  data,
		Flash: flash,
	}, nil
}

// session returns the request's session handle.
func (h Handler) session(c echo.Context) *session.Session {
	return h.server.Sessions.Load(c)
}

// flash queues a one-shot message for the next rendered page.
func (h Handler) flash(c echo.Context, kind session.FlashKind, message string) error {
	return h.session(c).Flash(c.Request().Context(), kind, message)
}

// --- Generic typed handler plumbing -----------------------------------------

// HandlerFunc represents a typed endpoint function that receives a
// validated request payload and returns a response or an error. Req is
// typically a pointer type so Echo's Bind can populate it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// RedirectHandlerFunc is a typed endpoint function for mutating routes:
// it returns the URL to redirect to on success.
type RedirectHandlerFunc[Req validation.Validatable] func(c echo.Context, req Req) (string, error)

// ResponseHandler defines how a successful handler result is written to
// the HTTP response, plus per-response-type observability hooks.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result interface{}) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on the result.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// NoContentResponseHandler writes responses with no body (204).
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware
}

// RedirectResponseHandler writes a redirect to the URL returned by the
// handler. Every successful mutating route responds this way; the
// outcome message travels via flash, not the response body.
type RedirectResponseHandler struct {
	status int
}

func (h RedirectResponseHandler) Handle(c echo.Context, result interface{}) error {
	// The contract for RedirectResponseHandler is: handler must return
	// a string target URL.
	target := result.(string)
	return c.Redirect(h.status, target)
}

func (h RedirectResponseHandler) GetOperation() string {
	return "handler_redirect"
}

func (h RedirectResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn != nil {
		if target, ok := result.(string); ok {
			txn.AddAttribute("redirect.target", target)
		}
	}
}

// handleRequest is the shared execution pipeline for all handlers.
//
// It centralizes:
//
//   - request binding + validation
//   - structured logging (with request context)
//   - New Relic tracing attributes and error reporting
//   - timing metrics (validation, handler, and total duration)
//   - response writing (json / no-content / redirect)
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	method := c.Request().Method
	path := c.Path()
	route := path

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("path", path).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Error().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		// The global error handler formats the response.
		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())

		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	// Handlers that already wrote a response (flash-and-redirect on a
	// missing record) signal it by committing; nothing left to write.
	if c.Response().Committed {
		return nil
	}

	return responseHandler.Handle(c, result)
}

// ValidatablePtr constrains PReq to be *Req implementing Validatable,
// so the pipeline can allocate a fresh request per call. Sharing one
// bound struct across concurrent requests would be a data race.
type ValidatablePtr[Req any] interface {
	*Req
	validation.Validatable
}

// Handle wraps a handler with validation, error handling, logging,
// metrics, and tracing, writing the result as JSON.
//
// Usage:
//
//	e.GET("/campgrounds", handler.Handle(h.Handler, h.List, http.StatusOK))
func Handle[Req any, PReq ValidatablePtr[Req], Res any](
	h Handler,
	handler HandlerFunc[PReq, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))
		return handleRequest(c, req, func(c echo.Context, req PReq) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleRedirect wraps a mutating handler into the unified pipeline,
// responding with a 302 to the URL the handler returns.
func HandleRedirect[Req any, PReq ValidatablePtr[Req]](
	h Handler,
	handler RedirectHandlerFunc[PReq],
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))
		return handleRequest(c, req, func(c echo.Context, req PReq) (interface{}, error) {
			return handler(c, req)
		}, RedirectResponseHandler{status: http.StatusFound})
	}
}
