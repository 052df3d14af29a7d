// Package providers holds one adapter per external messaging service, all
// behind the same Send contract. Each adapter owns its own wire quirks: auth
// header conventions, phone formats, endpoint shapes, success signaling.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Kind string

const (
	KindEmail    Kind = "email"
	KindWhatsApp Kind = "whatsapp"
)

// Sender is the one operation the dispatcher needs from a channel.
type Sender interface {
	Name() string
	Kind() Kind
	Send(ctx context.Context, to, subject, body string) error
}

// OptimisticSender marks adapters that report success without having observed
// the remote outcome. The dispatcher surfaces this so "providerUsed" is read
// with the right amount of trust.
type OptimisticSender interface {
	Optimistic() bool
}

// ErrNotConfigured: the channel exists but required config is missing.
// The dispatcher skips such senders instead of failing the whole request.
var ErrNotConfigured = errors.New("providers: not configured")

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s api error: status=%d body=%s", e.Provider, e.StatusCode, snippet(e.Body))
}

func snippet(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// Shared client for every adapter. Provider calls are the only suspension
// points in a dispatch, so they all get the same hard timeout.
var httpClient = &http.Client{Timeout: 30 * time.Second}
