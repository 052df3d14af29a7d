package providers

import (
	"fmt"
	"log"
	"strings"

	"vibepos/config"
)

// Platform is the configured WhatsApp gateway. A typed constant instead of a
// free string so the switch below stays exhaustive.
type Platform string

const (
	PlatformWAHA       Platform = "waha"
	PlatformDripSender Platform = "dripsender"
	PlatformStarSender Platform = "starsender"
	PlatformWablas     Platform = "wablas"
)

func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformWAHA:
		return PlatformWAHA, nil
	case PlatformDripSender:
		return PlatformDripSender, nil
	case PlatformStarSender:
		return PlatformStarSender, nil
	case PlatformWablas:
		return PlatformWablas, nil
	default:
		return "", fmt.Errorf("providers: unsupported whatsapp platform %q", s)
	}
}

// EmailSenders builds the email preference chain from config: Mailketing
// first, SMTP as fallback. Unconfigured transports are logged and skipped, so
// an empty slice just means "email channel unavailable".
func EmailSenders(cfg config.EmailConfig) []Sender {
	var out []Sender

	mk, err := NewMailketing(cfg.MailketingURL, cfg.MailketingToken, cfg.FromName, cfg.FromEmail)
	if err != nil {
		log.Printf("providers: mailketing disabled: %v", err)
	} else {
		out = append(out, mk)
	}

	smtp, err := NewSMTP(cfg.SmtpHost, cfg.SmtpPort, cfg.SmtpUser, cfg.SmtpPass, cfg.FromName, cfg.FromEmail)
	if err != nil {
		log.Printf("providers: smtp disabled: %v", err)
	} else {
		out = append(out, smtp)
	}

	return out
}

// ChatSender builds the single configured WhatsApp gateway. Chat channels are
// not cascaded: one platform is selected by configuration.
func ChatSender(cfg config.ChatConfig) (Sender, error) {
	if strings.TrimSpace(cfg.Platform) == "" {
		return nil, fmt.Errorf("whatsapp: %w", ErrNotConfigured)
	}
	platform, err := ParsePlatform(cfg.Platform)
	if err != nil {
		return nil, err
	}

	switch platform {
	case PlatformWAHA:
		return NewWAHA(cfg.ApiURL, cfg.SessionID)
	case PlatformDripSender:
		return NewDripSender(cfg.ApiURL, cfg.ApiKey, cfg.DeviceID)
	case PlatformStarSender:
		return NewStarSender(cfg.ApiURL, cfg.ApiKey, cfg.DeviceID)
	case PlatformWablas:
		return NewWablas(cfg.ApiURL, cfg.ApiKey)
	}
	return nil, fmt.Errorf("providers: unsupported whatsapp platform %q", platform)
}
