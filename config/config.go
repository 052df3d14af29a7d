package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Store StoreConfig `json:"store"`
	Reset ResetConfig `json:"reset"`
	Email EmailConfig `json:"email"`
	Chat  ChatConfig  `json:"chat"`
	Queue QueueConfig `json:"queue"`
}

// StoreConfig selects where reset credentials live.
type StoreConfig struct {
	Backend string `json:"backend"` // "memory" ou "gorm"
}

// ResetConfig holds the token policy. The decode fallback is the permissive
// 24h path the legacy front-end relied on; it ships disabled.
type ResetConfig struct {
	BaseURL             string `json:"base_url"`
	TokenTTLMinutes     int    `json:"token_ttl_minutes"`
	FallbackTTLHours    int    `json:"fallback_ttl_hours"`
	CooldownSeconds     int    `json:"cooldown_seconds"`
	AllowDecodeFallback bool   `json:"allow_decode_fallback"`
}

func (r ResetConfig) TokenTTL() time.Duration    { return time.Duration(r.TokenTTLMinutes) * time.Minute }
func (r ResetConfig) FallbackTTL() time.Duration { return time.Duration(r.FallbackTTLHours) * time.Hour }
func (r ResetConfig) Cooldown() time.Duration    { return time.Duration(r.CooldownSeconds) * time.Second }

// EmailConfig covers both email transports: Mailketing (primary) and SMTP (fallback).
// Credentials come from env so they never land in the config file.
type EmailConfig struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`

	MailketingURL   string `json:"mailketing_url"`
	MailketingToken string `json:"-"`

	SmtpHost string `json:"smtp_host"`
	SmtpPort int    `json:"smtp_port"`
	SmtpUser string `json:"-"`
	SmtpPass string `json:"-"`
}

// ChatConfig selects one of the supported WhatsApp gateways.
type ChatConfig struct {
	Platform  string `json:"platform"` // "waha" | "dripsender" | "starsender" | "wablas"
	ApiURL    string `json:"api_url"`
	ApiKey    string `json:"-"`
	SessionID string `json:"session_id"` // WAHA
	DeviceID  string `json:"device_id"`  // DripSender / StarSender
}

type QueueConfig struct {
	Size           int `json:"size"`
	SendTimeoutSec int `json:"send_timeout_seconds"`
}

func (q QueueConfig) SendTimeout() time.Duration {
	return time.Duration(q.SendTimeoutSec) * time.Second
}

func Get(path string) Configuration {
	// .env primeiro: credenciais de providers ficam fora do arquivo JSON
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Reset.BaseURL == "" {
		c.Reset.BaseURL = "http://localhost:8081"
	}
	if c.Reset.TokenTTLMinutes <= 0 {
		c.Reset.TokenTTLMinutes = 60
	}
	if c.Reset.FallbackTTLHours <= 0 {
		c.Reset.FallbackTTLHours = 24
	}
	if c.Reset.CooldownSeconds <= 0 {
		c.Reset.CooldownSeconds = 5
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "VibePOS"
	}
	if c.Email.MailketingURL == "" {
		c.Email.MailketingURL = "https://api.mailketing.co.id/api/v1/send"
	}
	if c.Email.SmtpPort <= 0 {
		c.Email.SmtpPort = 587
	}
	if c.Queue.Size <= 0 {
		c.Queue.Size = 64
	}
	if c.Queue.SendTimeoutSec <= 0 {
		c.Queue.SendTimeoutSec = 45
	}

	// env overrides (mesmas chaves do front antigo, sem o prefixo VITE_)
	c.Email.MailketingToken = getenv("MAILKETING_API_TOKEN", c.Email.MailketingToken)
	c.Email.FromEmail = getenv("MAILKETING_FROM_EMAIL", c.Email.FromEmail)
	c.Email.FromName = getenv("MAILKETING_FROM_NAME", c.Email.FromName)
	c.Email.SmtpHost = getenv("SMTP_HOST", c.Email.SmtpHost)
	c.Email.SmtpUser = getenv("SMTP_USER", c.Email.SmtpUser)
	c.Email.SmtpPass = getenv("SMTP_PASS", c.Email.SmtpPass)
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Email.SmtpPort = p
		}
	}
	c.Chat.Platform = getenv("WHATSAPP_PLATFORM", c.Chat.Platform)
	c.Chat.ApiURL = getenv("WHATSAPP_API_URL", c.Chat.ApiURL)
	c.Chat.ApiKey = getenv("WHATSAPP_API_KEY", c.Chat.ApiKey)
	c.Chat.SessionID = getenv("WHATSAPP_SESSION_ID", c.Chat.SessionID)
	c.Chat.DeviceID = getenv("WHATSAPP_DEVICE_ID", c.Chat.DeviceID)

	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
