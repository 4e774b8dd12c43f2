// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue: tasks are enqueued through
// asynq.Client and executed by workers run by asynq.Server. The app
// uses it for welcome emails and for destroying removed images at the
// storage provider.
package job

import (
	"github.com/deppfellow/yelpcamp/internal/config"
	"github.com/deppfellow/yelpcamp/internal/lib/email"
	"github.com/deppfellow/yelpcamp/internal/storage"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue) and server (worker
// execution), plus the dependencies its handlers need.
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	// Handler dependencies, set by InitHandlers before Start.
	emailClient   *email.Client
	storageClient *storage.Client
}

// NewJobService creates a JobService backed by the Redis instance from
// cfg. Queue weights give "critical" tasks more worker share.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// InitHandlers wires the dependencies used by task handlers. Must be
// called before Start.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger, storageClient *storage.Client) {
	j.emailClient = email.NewClient(cfg, logger)
	j.storageClient = storageClient
}

// Start registers task handlers and starts the background worker
// server. Workers run in their own goroutines; Start returns once the
// server is up.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskImageDestroy, j.handleImageDestroyTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server, waiting for in-flight tasks,
// and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
