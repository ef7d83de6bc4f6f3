package mailSender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"joyful_time/internal/config"
	"joyful_time/internal/models"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, m...)

	return nil
}

func testEmail() models.Email {
	return models.Email{
		From:     "site@joyfultime.it",
		FromName: "Maria",
		To:       "info@joyfultime.it",
		ReplyTo:  "maria@example.com",
		Subject:  "Nuovo messaggio dal sito Joyful Time da Maria",
		Text:     "Interested in wedding packages",
		HTML:     "<p>Interested in wedding packages</p>",
	}
}

func render(t *testing.T, msg *gomail.Message) string {
	t.Helper()

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)

	return buf.String()
}

func TestNewSMTP_CopiesConfig(t *testing.T) {
	t.Parallel()

	m := NewSMTP(config.Mail{Host: "smtp.example.com", Port: 465, Username: "u", Password: "p"})

	require.Equal(t, "smtp.example.com", m.Host)
	require.Equal(t, 465, m.Port)
	require.Equal(t, "u", m.Username)
	require.Equal(t, "p", m.Password)
	require.True(t, m.SSL)
}

func TestMailer_Send_DeliversThroughDialer(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{}
	m := NewSMTP(config.Mail{Host: "smtp.example.com", Port: 587}).WithDialer(dialer)

	require.NoError(t, m.Send(context.Background(), testEmail()))
	require.Len(t, dialer.sent, 1)

	raw := render(t, dialer.sent[0])
	require.Contains(t, raw, "To: info@joyfultime.it")
	require.Contains(t, raw, "Reply-To: maria@example.com")
	require.Contains(t, raw, "Subject: Nuovo messaggio dal sito Joyful Time da Maria")
	require.Contains(t, raw, "site@joyfultime.it")
	require.Contains(t, raw, "Maria")
	require.Contains(t, raw, "text/plain")
	require.Contains(t, raw, "text/html")
}

func TestMailer_Send_NotConfigured(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{}
	m := NewSMTP(config.Mail{}).WithDialer(dialer)

	err := m.Send(context.Background(), testEmail())
	require.ErrorIs(t, err, ErrNotConfigured)
	require.Empty(t, dialer.sent)
}

func TestMailer_Send_NoRecipient(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{}
	m := NewSMTP(config.Mail{Host: "smtp.example.com"}).WithDialer(dialer)

	email := testEmail()
	email.To = ""

	require.ErrorIs(t, m.Send(context.Background(), email), ErrNoRecipient)
	require.Empty(t, dialer.sent)
}

func TestMailer_Send_DialerError(t *testing.T) {
	t.Parallel()

	dialErr := errors.New("dial tcp: connection refused")
	m := NewSMTP(config.Mail{Host: "smtp.example.com"}).WithDialer(&fakeDialer{err: dialErr})

	err := m.Send(context.Background(), testEmail())
	require.ErrorIs(t, err, dialErr)
}

func TestMailer_Send_CanceledContext(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{}
	m := NewSMTP(config.Mail{Host: "smtp.example.com"}).WithDialer(dialer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, m.Send(ctx, testEmail()), context.Canceled)
	require.Empty(t, dialer.sent)
}

func TestNewMessage_WithoutHTMLOrName(t *testing.T) {
	t.Parallel()

	email := testEmail()
	email.FromName = ""
	email.ReplyTo = ""
	email.HTML = ""

	raw := render(t, NewMessage(email))
	require.Contains(t, raw, "From: site@joyfultime.it")
	require.NotContains(t, raw, "Reply-To")
	require.NotContains(t, raw, "text/html")
}

func TestResendSender_NotConfigured(t *testing.T) {
	t.Parallel()

	err := NewResend("").Send(context.Background(), testEmail())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestResendSender_NoRecipient(t *testing.T) {
	t.Parallel()

	email := testEmail()
	email.To = ""

	err := NewResend("re_test").Send(context.Background(), email)
	require.ErrorIs(t, err, ErrNoRecipient)
}

func TestResendSender_Send_MapsEmailFields(t *testing.T) {
	t.Parallel()

	var (
		method string
		got    map[string]any
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"4ef9a417-02e9-4d39-ad75-9611e0fcc33c"}`))
	}))
	t.Cleanup(srv.Close)

	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	client := resend.NewCustomClient(srv.Client(), "re_test")
	client.BaseURL = baseURL

	require.NoError(t, NewResendWithClient(client).Send(context.Background(), testEmail()))

	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "Maria <site@joyfultime.it>", got["from"])
	require.Equal(t, []any{"info@joyfultime.it"}, got["to"])
	require.Equal(t, "maria@example.com", got["reply_to"])
	require.Equal(t, "Nuovo messaggio dal sito Joyful Time da Maria", got["subject"])
	require.Equal(t, "Interested in wedding packages", got["text"])
	require.Equal(t, "<p>Interested in wedding packages</p>", got["html"])
}

func TestResendSender_Send_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	}))
	t.Cleanup(srv.Close)

	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	client := resend.NewCustomClient(srv.Client(), "re_test")
	client.BaseURL = baseURL

	require.Error(t, NewResendWithClient(client).Send(context.Background(), testEmail()))
}
