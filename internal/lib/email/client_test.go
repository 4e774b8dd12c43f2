package email

import (
	"testing"

	"github.com/deppfellow/yelpcamp/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSendEmailSkipsWhenNotConfigured(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClient(&config.Config{}, &logger)

	// No API key: sending is a no-op, never an error. Registration must
	// not queue failing retries on installs without email configured.
	require.NoError(t, client.SendWelcomeEmail("camper@example.com", "camper"))
}
