package email

import "context"

// SendWelcomeEmail greets a newly registered user.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name string) error {
	data := map[string]string{
		"UserName": name,
	}

	return c.SendEmail(ctx, to, "Welcome to Users API!", TemplateWelcome, data)
}

// SendPasswordChangedEmail tells a user their password was changed.
func (c *Client) SendPasswordChangedEmail(ctx context.Context, to, name string) error {
	data := map[string]string{
		"UserName": name,
	}

	return c.SendEmail(ctx, to, "Your password was changed", TemplatePasswordChanged, data)
}
