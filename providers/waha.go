package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vibepos/tools"
)

// WAHA (WhatsApp HTTP API) is a self-hosted gateway: no auth header, the
// session id picks the logged-in WhatsApp account.
type WAHA struct {
	URL       string
	SessionID string
	Client    *http.Client
}

func NewWAHA(url, sessionID string) (*WAHA, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("waha: %w", ErrNotConfigured)
	}
	if sessionID == "" {
		sessionID = "default"
	}
	return &WAHA{URL: strings.TrimRight(url, "/"), SessionID: sessionID}, nil
}

func (w *WAHA) Name() string { return "waha" }
func (w *WAHA) Kind() Kind   { return KindWhatsApp }

func (w *WAHA) Send(ctx context.Context, to, _ string, body string) error {
	phone, err := tools.NormalizeWhatsAppTo(to)
	if err != nil {
		return fmt.Errorf("waha: %w", err)
	}

	payload := map[string]any{
		"session": w.SessionID,
		"chatId":  phone + "@c.us",
		"text":    body,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL+"/api/sendText", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client().Do(req)
	if err != nil {
		return fmt.Errorf("waha: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return APIError{Provider: w.Name(), StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

func (w *WAHA) client() *http.Client {
	if w.Client != nil {
		return w.Client
	}
	return httpClient
}
