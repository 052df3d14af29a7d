// Package tokens issues and checks single-use password-reset credentials.
//
// The primary identity provider's own reset flow is bypassed on purpose: reset
// links go out through the same dispatch layer as receipts, so the credential
// has to be minted and validated here.
package tokens

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vibepos/store"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ErrCooldown means a credential for the same email was issued moments ago.
// This guards against double-submits from a re-rendered form, not abuse.
var ErrCooldown = errors.New("tokens: reset requested too recently")

// Verification reasons, caller-facing.
const (
	ReasonOK       = "ok"
	ReasonDecodeOK = "decode_ok" // accepted by the decode fallback, not the store
	ReasonNotFound = "not_found"
	ReasonMismatch = "mismatch"
	ReasonExpired  = "expired"
)

type Verification struct {
	Valid  bool
	Reason string
}

type Config struct {
	TokenTTL    time.Duration // store-backed validity, default 1h
	FallbackTTL time.Duration // decode-fallback validity, default 24h
	Cooldown    time.Duration // per-email issue cooldown, default 5s

	// AllowDecodeFallback accepts tokens whose embedded email and timestamp
	// check out even when the store has no record. The legacy front-end needed
	// this to survive page reloads wiping localStorage; it widens the validity
	// window to FallbackTTL and skips single-use consumption, so it is off
	// unless explicitly enabled.
	AllowDecodeFallback bool
}

type Service struct {
	store    store.CredentialStore
	cooldown *gocache.Cache
	cfg      Config
	now      func() time.Time
}

func NewService(st store.CredentialStore, cfg Config) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.FallbackTTL <= 0 {
		cfg.FallbackTTL = 24 * time.Hour
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 5 * time.Second
	}
	return &Service{
		store:    st,
		cooldown: gocache.New(cfg.Cooldown, time.Minute),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Issue mints a credential for email and stores it, replacing any prior one.
// Inside the cooldown window it returns ErrCooldown and leaves the stored
// credential untouched.
func (s *Service) Issue(email string) (store.Record, error) {
	if _, hot := s.cooldown.Get(email); hot {
		return store.Record{}, ErrCooldown
	}
	s.cooldown.SetDefault(email, struct{}{})

	now := s.now()
	rec := store.Record{
		Email:    email,
		Token:    encodeToken(email, now),
		IssuedAt: now,
	}
	if err := s.store.Put(email, rec); err != nil {
		return store.Record{}, fmt.Errorf("tokens: store credential: %w", err)
	}
	return rec, nil
}

// Verify checks token against the stored credential for email. Store-backed
// tokens need an exact match inside TokenTTL. With no stored record the decode
// fallback (when enabled) inspects the token itself.
func (s *Service) Verify(email, token string) Verification {
	rec, ok := s.store.Get(email)
	if !ok {
		if s.cfg.AllowDecodeFallback {
			return s.verifyByDecode(email, token)
		}
		return Verification{Valid: false, Reason: ReasonNotFound}
	}

	if rec.Token != token {
		return Verification{Valid: false, Reason: ReasonMismatch}
	}
	if s.now().After(rec.IssuedAt.Add(s.cfg.TokenTTL)) {
		return Verification{Valid: false, Reason: ReasonExpired}
	}
	return Verification{Valid: true, Reason: ReasonOK}
}

// Consume drops the stored credential. Call it right after the password change
// lands; a forgotten Consume only leaves a record that TokenTTL already killed.
func (s *Service) Consume(email string) {
	s.store.Delete(email)
}

func (s *Service) verifyByDecode(email, token string) Verification {
	tokenEmail, issuedAt, err := DecodeToken(token)
	if err != nil {
		return Verification{Valid: false, Reason: ReasonNotFound}
	}
	if tokenEmail != email {
		return Verification{Valid: false, Reason: ReasonMismatch}
	}
	if s.now().After(issuedAt.Add(s.cfg.FallbackTTL)) {
		return Verification{Valid: false, Reason: ReasonExpired}
	}
	return Verification{Valid: true, Reason: ReasonDecodeOK}
}

// Token layout: base64("name%40host") + "_" + unix-millis + "_" + random.
// The base64 alphabet, digits and hex never contain '_', so SplitN is safe.
// Same shape the legacy front-end generated, which keeps old links decodable.
func encodeToken(email string, issuedAt time.Time) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(strings.Replace(email, "@", "%40", 1)))
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return encoded + "_" + strconv.FormatInt(issuedAt.UnixMilli(), 10) + "_" + random
}

// DecodeToken extracts the embedded email and issue time from a token.
func DecodeToken(token string) (string, time.Time, error) {
	parts := strings.SplitN(token, "_", 3)
	if len(parts) != 3 {
		return "", time.Time{}, fmt.Errorf("tokens: malformed token")
	}

	raw, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("tokens: decode email segment: %w", err)
	}
	email, err := url.QueryUnescape(string(raw))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("tokens: unescape email segment: %w", err)
	}

	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("tokens: decode timestamp segment: %w", err)
	}

	return email, time.UnixMilli(millis), nil
}
