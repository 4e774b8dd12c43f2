// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and loads HTML
// templates from the filesystem to render email bodies.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/deppfellow/yelpcamp/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Client wraps the Resend client together with the sender identity
// from config.
type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client with the API key and sender
// identity from config. Without an API key the client is inert and
// every send is a logged no-op.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	var client *resend.Client
	if cfg.Email.ResendAPIKey != "" {
		client = resend.NewClient(cfg.Email.ResendAPIKey)
	}

	return &Client{
		client: client,
		from:   fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromAddress),
		logger: logger,
	}
}

// SendEmail sends an email with HTML rendered from a template file
// under templates/emails. data keys must match what the template
// expects.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	if c.client == nil {
		c.logger.Debug().
			Str("to", to).
			Str("template", string(templateName)).
			Msg("email sending not configured, skipping")
		return nil
	}

	tmplPath := fmt.Sprintf("%s/%s.html", "templates/emails", templateName)

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	}

	_, err = c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().Str("to", to).Str("template", string(templateName)).Msg("sent email")
	return nil
}
