package providers

import (
	"context"
	"fmt"
	"strings"

	mail "github.com/go-mail/mail"
)

// SMTP is the server-side fallback email transport. The legacy front-end only
// documented it; here it actually sits behind Mailketing in the preference
// order.
type SMTP struct {
	Host      string
	Port      int
	User      string
	Pass      string
	FromName  string
	FromEmail string
}

func NewSMTP(host string, port int, user, pass, fromName, fromEmail string) (*SMTP, error) {
	if strings.TrimSpace(host) == "" || strings.TrimSpace(fromEmail) == "" {
		return nil, fmt.Errorf("smtp: %w", ErrNotConfigured)
	}
	if port <= 0 {
		port = 587
	}
	return &SMTP{Host: host, Port: port, User: user, Pass: pass, FromName: fromName, FromEmail: fromEmail}, nil
}

func (s *SMTP) Name() string { return "smtp" }
func (s *SMTP) Kind() Kind   { return KindEmail }

func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.FromEmail, s.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)

	// go-mail has no context hook; honor cancellation around the blocking call
	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: %w", ctx.Err())
	}
}
