package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"vibepos/tools"
)

// StarSender rides everything in the query string, authenticates with an
// "apikey" header and wants the destination as <number>@s.whatsapp.net.
type StarSender struct {
	URL      string
	APIKey   string
	DeviceID string
	Client   *http.Client
}

func NewStarSender(rawURL, apiKey, deviceID string) (*StarSender, error) {
	if strings.TrimSpace(rawURL) == "" || strings.TrimSpace(apiKey) == "" || strings.TrimSpace(deviceID) == "" {
		return nil, fmt.Errorf("starsender: %w", ErrNotConfigured)
	}
	// some configs carry a trailing /send from the docs; the real endpoint is /sendText
	rawURL = strings.TrimSuffix(strings.TrimRight(rawURL, "/"), "/send")
	return &StarSender{URL: rawURL, APIKey: apiKey, DeviceID: deviceID}, nil
}

func (s *StarSender) Name() string { return "starsender" }
func (s *StarSender) Kind() Kind   { return KindWhatsApp }

func (s *StarSender) Send(ctx context.Context, to, _ string, body string) error {
	phone, err := tools.NormalizeWhatsAppTo(to)
	if err != nil {
		return fmt.Errorf("starsender: %w", err)
	}

	q := url.Values{}
	q.Set("id_device", s.DeviceID)
	q.Set("message", body)
	q.Set("tujuan", phone+"@s.whatsapp.net")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL+"/sendText?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.APIKey)

	resp, err := s.client().Do(req)
	if err != nil {
		return fmt.Errorf("starsender: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return APIError{Provider: s.Name(), StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

func (s *StarSender) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return httpClient
}
