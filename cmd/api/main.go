package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/yelpcamp/internal/config"
	"github.com/deppfellow/yelpcamp/internal/database"
	"github.com/deppfellow/yelpcamp/internal/handler"
	"github.com/deppfellow/yelpcamp/internal/logger"
	"github.com/deppfellow/yelpcamp/internal/middleware"
	"github.com/deppfellow/yelpcamp/internal/repository"
	"github.com/deppfellow/yelpcamp/internal/router"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/deppfellow/yelpcamp/internal/service"
	"github.com/rs/zerolog"
)

// shutdownTimeout bounds how long inflight requests may run during
// graceful shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	// Bootstrap logger for the window before observability config is
	// applied.
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	loggerService, err := logger.NewLoggerService(cfg, &bootLogger)
	if err != nil {
		// APM is optional; run without it rather than refusing to start.
		bootLogger.Error().Err(err).Msg("failed to initialize New Relic, continuing without APM")
		loggerService = &logger.LoggerService{}
	}

	appLogger := logger.New(cfg, loggerService.GetApplication())

	ctx := context.Background()

	if err := database.Migrate(ctx, appLogger, cfg); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run database migrations")
	}

	srv, err := server.New(cfg, appLogger, loggerService)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize services")
	}

	middlewares := middleware.NewMiddlewares(srv, repos)
	handlers := handler.NewHandlers(srv, services)

	e := router.New(srv, middlewares, handlers)
	srv.SetupHTTPServer(e)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	// Block until interrupted, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if nrApp := loggerService.GetApplication(); nrApp != nil {
		nrApp.Shutdown(shutdownTimeout)
	}

	appLogger.Info().Msg("shutdown complete")
}
