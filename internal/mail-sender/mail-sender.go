package mailSender

import (
	"context"
	"errors"
	"fmt"

	"joyful_time/internal/config"
	"joyful_time/internal/models"

	"gopkg.in/gomail.v2"
)

var (
	ErrNotConfigured = errors.New("mail transport is not configured")
	ErrNoRecipient   = errors.New("email must have a recipient")
)

// Sender delivers a fully formed email or reports why it could not.
type Sender interface {
	Send(ctx context.Context, email models.Email) error
}

// Dialer is the part of gomail.Dialer the mailer needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	SSL      bool

	dialer Dialer
}

func NewSMTP(cfg config.Mail) *Mailer {
	return &Mailer{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		SSL:      cfg.ImplicitTLS(),
	}
}

// WithDialer replaces the SMTP dialer, mostly for tests.
func (m *Mailer) WithDialer(d Dialer) *Mailer {
	m.dialer = d

	return m
}

func (m *Mailer) Send(ctx context.Context, email models.Email) error {
	const op = "mailSender.Mailer.Send"

	if m.Host == "" {
		return fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	if email.To == "" {
		return fmt.Errorf("%s: %w", op, ErrNoRecipient)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.getDialer().DialAndSend(NewMessage(email)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (m *Mailer) getDialer() Dialer {
	if m.dialer != nil {
		return m.dialer
	}

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	dialer.SSL = m.SSL

	return dialer
}

// NewMessage renders email as a multipart/alternative gomail message.
func NewMessage(email models.Email) *gomail.Message {
	msg := gomail.NewMessage()

	if email.FromName != "" {
		msg.SetAddressHeader("From", email.From, email.FromName)
	} else {
		msg.SetHeader("From", email.From)
	}

	msg.SetHeader("To", email.To)

	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}

	msg.SetHeader("Subject", email.Subject)

	msg.SetBody("text/plain", email.Text)

	if email.HTML != "" {
		msg.AddAlternative("text/html", email.HTML)
	}

	return msg
}
