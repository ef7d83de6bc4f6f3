package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

const (
	MsgSent     = "Messaggio inviato con successo!"
	MsgFailed   = "Si è verificato un errore. Riprova più tardi."
	MsgNetwork  = "Si è verificato un errore di rete. Riprova più tardi."
	ContactPath = "/api/contact"
)

var (
	ErrInFlight = errors.New("submission already in flight")
	ErrRejected = errors.New("submission rejected")
	ErrNetwork  = errors.New("network failure")
)

type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type Status struct {
	Loading bool
	Success string
	Error   string
}

// Form mirrors the page's contact form: field values, submission status,
// and at most one request in flight.
type Form struct {
	mu         sync.Mutex
	fields     Fields
	status     Status
	endpoint   string
	httpClient *http.Client
}

// New targets baseURL + /api/contact. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Form {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Form{
		endpoint:   baseURL + ContactPath,
		httpClient: httpClient,
	}
}

func (f *Form) SetName(v string)    { f.set(func(fl *Fields) { fl.Name = v }) }
func (f *Form) SetEmail(v string)   { f.set(func(fl *Fields) { fl.Email = v }) }
func (f *Form) SetMessage(v string) { f.set(func(fl *Fields) { fl.Message = v }) }

func (f *Form) set(update func(*Fields)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	update(&f.fields)
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fields
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.status
}

// Submit posts the current fields. On success the fields are cleared; on
// any failure they are kept and Status.Error holds the message to show.
func (f *Form) Submit(ctx context.Context) error {
	const op = "client.Form.Submit"

	f.mu.Lock()
	if f.status.Loading {
		f.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrInFlight)
	}
	f.status = Status{Loading: true}
	fields := f.fields
	f.mu.Unlock()

	msg, err := f.post(ctx, fields)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case err == nil:
		f.fields = Fields{}
		f.status = Status{Success: MsgSent}
		return nil
	case errors.Is(err, ErrRejected):
		if msg == "" {
			msg = MsgFailed
		}
		f.status = Status{Error: msg}
	default:
		f.status = Status{Error: MsgNetwork}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// post returns the server's message for non-2xx replies.
func (f *Form) post(ctx context.Context, fields Fields) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Join(ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Join(ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := f.httpClient.Do(req)
	if err != nil {
		return "", errors.Join(ErrNetwork, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return "", nil
	}

	var out struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(res.Body).Decode(&out)

	return out.Message, fmt.Errorf("%w: status %d", ErrRejected, res.StatusCode)
}
