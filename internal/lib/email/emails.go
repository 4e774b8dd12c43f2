package email

// SendWelcomeEmail sends a welcome email to a freshly registered user.
func (c *Client) SendWelcomeEmail(to, username string) error {
	data := map[string]string{
		"Username": username,
	}

	return c.SendEmail(
		to,
		"Welcome to YelpCamp!",
		TemplateWelcome,
		data,
	)
}
