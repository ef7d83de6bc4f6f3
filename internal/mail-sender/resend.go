package mailSender

import (
	"context"
	"fmt"

	"joyful_time/internal/models"

	"github.com/resend/resend-go/v3"
)

// ResendSender delivers through the Resend HTTP API instead of SMTP.
type ResendSender struct {
	client *resend.Client
}

func NewResend(apiKey string) *ResendSender {
	if apiKey == "" {
		return &ResendSender{}
	}

	return &ResendSender{client: resend.NewClient(apiKey)}
}

// NewResendWithClient wraps a preconfigured client, e.g. one built with
// resend.NewCustomClient.
func NewResendWithClient(client *resend.Client) *ResendSender {
	return &ResendSender{client: client}
}

func (s *ResendSender) Send(ctx context.Context, email models.Email) error {
	const op = "mailSender.ResendSender.Send"

	if s.client == nil {
		return fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	if email.To == "" {
		return fmt.Errorf("%s: %w", op, ErrNoRecipient)
	}

	from := email.From
	if email.FromName != "" {
		from = fmt.Sprintf("%s <%s>", email.FromName, email.From)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
