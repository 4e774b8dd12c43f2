// Package logger configures the application's logging, monitoring, and
// observability.
//
// It uses zerolog for structured logging and integrates with New Relic
// to instrument the codebase, forwarding logs, metrics, and traces.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/deppfellow/yelpcamp/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerService owns the optional New Relic application instance.
// When New Relic is not configured (empty license key) the service
// still exists but GetApplication returns nil, and every consumer is
// expected to degrade to a no-op.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService initializes the New Relic agent from config.
//
// With an empty license key no agent is created and the returned
// service is an inert shell. Agent startup errors are returned so the
// caller can decide whether to continue without APM.
func NewLoggerService(cfg *config.Config, logger *zerolog.Logger) (*LoggerService, error) {
	obs := cfg.Observability

	if obs.NewRelic.LicenseKey == "" {
		logger.Info().Msg("New Relic license key not set, running without APM")
		return &LoggerService{}, nil
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(obs.ServiceName),
		newrelic.ConfigLicense(obs.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(obs.NewRelic.DistributedTracingEnabled),
		newrelic.ConfigAppLogForwardingEnabled(obs.NewRelic.AppLogForwardingEnabled),
	}

	if obs.NewRelic.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(os.Stderr))
	}

	nrApp, err := newrelic.NewApplication(opts...)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("service", obs.ServiceName).
		Str("environment", obs.Environment).
		Msg("New Relic application initialized")

	return &LoggerService{nrApp: nrApp}, nil
}

// GetApplication returns the New Relic application instance, or nil
// when New Relic is disabled.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	if ls == nil {
		return nil
	}
	return ls.nrApp
}

// New builds the main application logger from observability config.
//
// Format "console" writes human-friendly output to stderr; anything
// else writes JSON. When a New Relic application is provided and log
// forwarding is enabled, the JSON stream is wrapped so log lines are
// decorated with trace linking metadata and forwarded to New Relic.
func New(cfg *config.Config, nrApp *newrelic.Application) *zerolog.Logger {
	level := ParseLevel(cfg.Observability.GetLogLevel())

	var out io.Writer = os.Stdout
	if cfg.Observability.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	} else if nrApp != nil && cfg.Observability.NewRelic.AppLogForwardingEnabled {
		out = zerologWriter.New(os.Stdout, nrApp)
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Observability.ServiceName).
		Str("env", cfg.Observability.Environment).
		Logger()

	return &logger
}

// ParseLevel maps a config level string onto a zerolog level,
// defaulting to info for unknown values.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithTraceContext returns a child logger carrying the New Relic trace
// and span ids of the given transaction, so log lines can be joined to
// distributed traces.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}

	md := txn.GetTraceMetadata()

	builder := logger.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}

// NewPgxLogger builds the logger handed to the pgx tracelog adapter.
// SQL logging is noisy, so it gets its own console logger tagged with
// a component field instead of sharing the main JSON stream.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("component", "pgx").
		Logger()
}

// GetPgxTraceLogLevel maps the application log level onto the pgx
// tracelog level. Debug logs every query; anything quieter only logs
// slow queries and errors.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}
