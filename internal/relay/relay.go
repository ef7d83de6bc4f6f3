package relay

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"joyful_time/internal/config"
	sl "joyful_time/internal/lib/logger"
	"joyful_time/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrDeliveryFailure = errors.New("delivery failure")
)

type Sender interface {
	Send(ctx context.Context, email models.Email) error
}

// Relay turns a contact submission into an email for the site operator.
type Relay struct {
	log    *slog.Logger
	sender Sender
	policy *bluemonday.Policy
	from   string
	to     string
}

func New(log *slog.Logger, sender Sender, cfg config.Mail) *Relay {
	return &Relay{
		log:    log,
		sender: sender,
		policy: bodyPolicy(),
		from:   cfg.SenderAddress(),
		to:     cfg.To,
	}
}

// Deliver sends one submission. Identical submissions are sent twice.
func (r *Relay) Deliver(ctx context.Context, sub models.ContactSubmission) error {
	const op = "relay.Deliver"

	log := r.log.With(
		slog.String("op", op),
	)

	if sub.Name == "" || sub.Email == "" || sub.Message == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingField)
	}

	email := r.Compose(sub)

	if err := r.sender.Send(ctx, email); err != nil {
		log.Error("failed to deliver contact email", sl.Err(err))

		return fmt.Errorf("%s: %w", op, errors.Join(ErrDeliveryFailure, err))
	}

	log.Info("contact email delivered")

	return nil
}

// * Compose builds the operator email: the sender's name goes into the
// subject and display name, their address into Reply-To and both bodies.
func (r *Relay) Compose(sub models.ContactSubmission) models.Email {
	return models.Email{
		From:     r.from,
		FromName: sub.Name,
		To:       r.to,
		ReplyTo:  sub.Email,
		Subject:  fmt.Sprintf("Nuovo messaggio dal sito Joyful Time da %s", sub.Name),
		Text:     fmt.Sprintf("Email: %s\n\nMessaggio:\n%s\n", sub.Email, sub.Message),
		HTML: r.policy.Sanitize(fmt.Sprintf(
			"<h1>Nuovo Messaggio da %s</h1><p>Email: %s</p><p>Messaggio:</p><p>%s</p>",
			html.EscapeString(sub.Name),
			html.EscapeString(sub.Email),
			strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br>"),
		)),
	}
}

// bodyPolicy admits only the elements Compose emits. User text is already
// entity-encoded, so it passes through as text.
func bodyPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "p", "br")

	return p
}
