package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome is the welcome email job type stored in Redis.
	TaskWelcome = "email:welcome"

	// TaskImageDestroy removes an uploaded image at the storage
	// provider after its database row is gone.
	TaskImageDestroy = "image:destroy"
)

// WelcomeEmailPayload is the JSON payload for the welcome email task.
type WelcomeEmailPayload struct {
	To       string `json:"to"`
	Username string `json:"username"`
}

// NewWelcomeEmailTask constructs the welcome email task: 3 retries,
// default queue, 30s handler timeout.
func NewWelcomeEmailTask(to, username string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:       to,
		Username: username,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// ImageDestroyPayload is the JSON payload for the image destroy task.
// Filename is the storage public id.
type ImageDestroyPayload struct {
	Filename string `json:"filename"`
}

// NewImageDestroyTask constructs an image destroy task. Cleanup is not
// urgent, so it goes to the low queue, but it retries generously since
// a dropped task leaks a stored object.
func NewImageDestroyTask(filename string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageDestroyPayload{
		Filename: filename,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskImageDestroy,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
