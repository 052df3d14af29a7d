package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Mailketing sends email through the Mailketing HTTP API
// (https://mailketing.co.id, multipart form POST).
type Mailketing struct {
	URL       string
	APIToken  string
	FromName  string
	FromEmail string

	// OptimisticOK replicates the legacy browser client, which had to call the
	// API in no-cors mode and could only equate "no local network error" with
	// success. Server-side we can read the response, so this is off by default.
	OptimisticOK bool

	Client *http.Client
}

func NewMailketing(url, token, fromName, fromEmail string) (*Mailketing, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(fromEmail) == "" {
		return nil, fmt.Errorf("mailketing: %w", ErrNotConfigured)
	}
	return &Mailketing{URL: url, APIToken: token, FromName: fromName, FromEmail: fromEmail}, nil
}

func (m *Mailketing) Name() string     { return "mailketing" }
func (m *Mailketing) Kind() Kind       { return KindEmail }
func (m *Mailketing) Optimistic() bool { return m.OptimisticOK }

type mailketingResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// Mailketing answers with terse API strings; map the common ones to something
// an operator can act on.
var mailketingErrors = map[string]string{
	"User Not Found or Wrong API Token": "API token salah atau user tidak ditemukan",
	"Access Denied, Invalid Token":      "token tidak valid",
	"No Credits, Please Top Up":         "credits habis, silakan top up",
	"Blacklisted":                       "email penerima di blacklist",
}

func (m *Mailketing) Send(ctx context.Context, to, subject, body string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"api_token":  m.APIToken,
		"from_name":  m.FromName,
		"from_email": m.FromEmail,
		"recipient":  to,
		"subject":    subject,
		"content":    body,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("mailketing: build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailketing: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := m.client().Do(req)
	if err != nil {
		return fmt.Errorf("mailketing: %w", err)
	}
	defer resp.Body.Close()

	if m.OptimisticOK {
		// request left the building: that is all the legacy policy checks
		return nil
	}

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return APIError{Provider: m.Name(), StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed mailketingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// opaque 2xx body, accept it
		return nil
	}
	if parsed.Status != "" && !strings.EqualFold(parsed.Status, "success") {
		msg := parsed.Response
		if friendly, ok := mailketingErrors[msg]; ok {
			msg = friendly
		}
		return fmt.Errorf("mailketing: send rejected: %s", msg)
	}
	return nil
}

func (m *Mailketing) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return httpClient
}
