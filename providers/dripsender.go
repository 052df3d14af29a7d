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

// DripSender: Indonesian WhatsApp marketing gateway. JSON POST with a Bearer
// token and the sending device id.
type DripSender struct {
	URL      string
	APIKey   string
	DeviceID string
	Client   *http.Client
}

func NewDripSender(url, apiKey, deviceID string) (*DripSender, error) {
	if strings.TrimSpace(url) == "" || strings.TrimSpace(apiKey) == "" || strings.TrimSpace(deviceID) == "" {
		return nil, fmt.Errorf("dripsender: %w", ErrNotConfigured)
	}
	return &DripSender{URL: strings.TrimRight(url, "/"), APIKey: apiKey, DeviceID: deviceID}, nil
}

func (d *DripSender) Name() string { return "dripsender" }
func (d *DripSender) Kind() Kind   { return KindWhatsApp }

func (d *DripSender) Send(ctx context.Context, to, _ string, body string) error {
	phone, err := tools.NormalizeWhatsAppTo(to)
	if err != nil {
		return fmt.Errorf("dripsender: %w", err)
	}

	payload := map[string]any{
		"phone":     phone,
		"message":   body,
		"device_id": d.DeviceID,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL+"/send-message", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.APIKey)

	resp, err := d.client().Do(req)
	if err != nil {
		return fmt.Errorf("dripsender: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return APIError{Provider: d.Name(), StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

func (d *DripSender) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return httpClient
}
