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

// Wablas: JSON POST, raw API key in the Authorization header (no Bearer
// prefix), plain digit phone numbers.
type Wablas struct {
	URL    string
	APIKey string
	Client *http.Client
}

func NewWablas(url, apiKey string) (*Wablas, error) {
	if strings.TrimSpace(url) == "" || strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("wablas: %w", ErrNotConfigured)
	}
	return &Wablas{URL: strings.TrimRight(url, "/"), APIKey: apiKey}, nil
}

func (w *Wablas) Name() string { return "wablas" }
func (w *Wablas) Kind() Kind   { return KindWhatsApp }

func (w *Wablas) Send(ctx context.Context, to, _ string, body string) error {
	phone, err := tools.NormalizeWhatsAppTo(to)
	if err != nil {
		return fmt.Errorf("wablas: %w", err)
	}

	payload := map[string]any{
		"phone":   phone,
		"message": body,
		"isGroup": false,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL+"/api/send-message", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", w.APIKey)

	resp, err := w.client().Do(req)
	if err != nil {
		return fmt.Errorf("wablas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return APIError{Provider: w.Name(), StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

func (w *Wablas) client() *http.Client {
	if w.Client != nil {
		return w.Client
	}
	return httpClient
}
