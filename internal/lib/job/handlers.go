package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleWelcomeEmailTask sends the welcome email for a new account.
func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w", err)
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("Processing welcome email task")

	if err := j.emailClient.SendWelcomeEmail(p.To, p.Username); err != nil {
		j.logger.Error().
			Str("type", "welcome").
			Str("to", p.To).
			Err(err).
			Msg("Failed to send welcome email")
		return err
	}

	return nil
}

// handleImageDestroyTask removes one image at the storage provider.
// Returning the error lets Asynq retry; the database row is already
// gone, so the worst case of a retry is a no-op destroy.
func (j *JobService) handleImageDestroyTask(ctx context.Context, t *asynq.Task) error {
	var p ImageDestroyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal image destroy payload: %w", err)
	}

	j.logger.Info().
		Str("type", "image_destroy").
		Str("filename", p.Filename).
		Msg("Processing image destroy task")

	if err := j.storageClient.Destroy(ctx, p.Filename); err != nil {
		j.logger.Error().
			Str("type", "image_destroy").
			Str("filename", p.Filename).
			Err(err).
			Msg("Failed to destroy image")
		return err
	}

	return nil
}
