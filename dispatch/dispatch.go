// Package dispatch is the single entry point for sending a logical message:
// it validates the request, renders content once, then walks the configured
// providers in preference order until one succeeds.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vibepos/format"
	"vibepos/providers"
	"vibepos/tools"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

type Kind string

const (
	KindReceipt Kind = "receipt"
	KindReset   Kind = "reset"
)

// Request is built per call and consumed synchronously; nothing here is
// persisted.
type Request struct {
	Channel     Channel
	To          string // email address or phone number, per channel
	DisplayName string
	Kind        Kind

	Receipt   *format.Receipt // KindReceipt
	ResetLink string          // KindReset
}

type Result struct {
	Succeeded  bool
	Provider   string
	Optimistic bool // provider reported success without observing the remote outcome
	Diagnostic string
}

// ValidationError: malformed request data. Never retried, surfaced as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "dispatch: " + e.Msg }

// ErrNoProvider: every sender for the channel is missing configuration.
var ErrNoProvider = errors.New("dispatch: no provider configured for channel")

type Dispatcher struct {
	email   []providers.Sender
	chat    []providers.Sender
	timeout time.Duration
}

func New(email []providers.Sender, chat []providers.Sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Dispatcher{email: email, chat: chat, timeout: timeout}
}

// Dispatch runs one send: validate, format, then try providers in order.
// It never panics and never returns a Go error for delivery failures; the
// Result carries the outcome so callers can decide how loudly to complain.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	if err := d.validate(req); err != nil {
		return Result{Diagnostic: err.Error()}
	}

	subject, body, err := d.render(req)
	if err != nil {
		return Result{Diagnostic: err.Error()}
	}

	senders := d.senders(req.Channel)
	if len(senders) == 0 {
		return Result{Diagnostic: ErrNoProvider.Error()}
	}

	return d.attempt(ctx, senders, req.To, subject, body)
}

func (d *Dispatcher) attempt(ctx context.Context, senders []providers.Sender, to, subject, body string) Result {
	var lastDiag string
	for _, s := range senders {
		attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := s.Send(attemptCtx, to, subject, body)
		cancel()

		if err == nil {
			res := Result{Succeeded: true, Provider: s.Name()}
			if opt, ok := s.(providers.OptimisticSender); ok && opt.Optimistic() {
				res.Optimistic = true
			}
			return res
		}

		lastDiag = fmt.Sprintf("%s: %v", s.Name(), err)
		log.Printf("dispatch: %s failed to=%s err=%v", s.Name(), to, err)
		// fall through to the next provider
	}

	return Result{Diagnostic: lastDiag}
}

// DispatchRaw sends pre-rendered content through the channel's fallback
// chain. Used for operator probes; regular traffic goes through Dispatch.
func (d *Dispatcher) DispatchRaw(ctx context.Context, ch Channel, to, subject, body string) Result {
	senders := d.senders(ch)
	if len(senders) == 0 {
		return Result{Diagnostic: ErrNoProvider.Error()}
	}
	return d.attempt(ctx, senders, to, subject, body)
}

func (d *Dispatcher) validate(req Request) error {
	switch req.Channel {
	case ChannelEmail:
		if !tools.ValidateEmail(req.To) {
			return &ValidationError{Msg: "invalid recipient email"}
		}
	case ChannelWhatsApp:
		if !tools.ValidWhatsAppNumber(req.To) {
			return &ValidationError{Msg: "invalid recipient phone"}
		}
	default:
		return &ValidationError{Msg: fmt.Sprintf("unknown channel %q", req.Channel)}
	}

	switch req.Kind {
	case KindReceipt:
		if req.Receipt == nil {
			return &ValidationError{Msg: "receipt payload missing"}
		}
		if err := req.Receipt.Validate(); err != nil {
			return &ValidationError{Msg: err.Error()}
		}
	case KindReset:
		if req.ResetLink == "" {
			return &ValidationError{Msg: "reset link missing"}
		}
	default:
		return &ValidationError{Msg: fmt.Sprintf("unknown message kind %q", req.Kind)}
	}
	return nil
}

func (d *Dispatcher) render(req Request) (subject, body string, err error) {
	switch req.Kind {
	case KindReceipt:
		if req.Channel == ChannelEmail {
			body, err = format.ReceiptHTML(*req.Receipt)
			return format.ReceiptSubject(*req.Receipt), body, err
		}
		body, err = format.ReceiptText(*req.Receipt)
		return "", body, err
	default: // KindReset, validated above
		if req.Channel == ChannelEmail {
			body, err = format.ResetHTML(req.DisplayName, req.To, req.ResetLink)
			return format.ResetSubject, body, err
		}
		return "", format.ResetText(req.DisplayName, req.ResetLink), nil
	}
}

func (d *Dispatcher) senders(ch Channel) []providers.Sender {
	if ch == ChannelEmail {
		return d.email
	}
	return d.chat
}

// Available reports whether at least one provider is configured for the
// channel, for the config-status endpoint.
func (d *Dispatcher) Available(ch Channel) bool {
	return len(d.senders(ch)) > 0
}

// Providers lists the configured sender names for the channel, in preference
// order.
func (d *Dispatcher) Providers(ch Channel) []string {
	senders := d.senders(ch)
	names := make([]string, 0, len(senders))
	for _, s := range senders {
		names = append(names, s.Name())
	}
	return names
}
