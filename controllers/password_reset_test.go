package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"vibepos/config"
	"vibepos/dispatch"
	"vibepos/providers"
	"vibepos/store"
	"vibepos/tokens"
	"vibepos/workers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	name string
	err  error

	mu   sync.Mutex
	last struct {
		to, subject, body string
	}
}

func (s *captureSender) Name() string         { return s.name }
func (s *captureSender) Kind() providers.Kind { return providers.KindEmail }

func (s *captureSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last.to, s.last.subject, s.last.body = to, subject, body
	return s.err
}

func (s *captureSender) snapshot() (to, subject, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.to, s.last.subject, s.last.body
}

func setupTestRouter(t *testing.T, emailSender providers.Sender) (*gin.Engine, *workers.NotifyWorker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Configuration{}
	cfg.Reset.BaseURL = "https://pos.example.com"
	cfg.Reset.TokenTTLMinutes = 60
	cfg.Reset.CooldownSeconds = 5

	var emails []providers.Sender
	if emailSender != nil {
		emails = append(emails, emailSender)
	}
	d := dispatch.New(emails, nil, time.Second)
	ts := tokens.NewService(store.NewMemory(time.Hour), tokens.Config{
		TokenTTL: time.Hour,
		Cooldown: 5 * time.Second,
	})
	w := workers.StartNotifyWorker(d, nil, 4, time.Second)
	t.Cleanup(w.Stop)

	SetupNotify(cfg, ts, d, w)
	SetPasswordChanger(nil)

	r := gin.New()
	r.POST("/api/password/forgot", ForgotPassword)
	r.POST("/api/password/check-token", CheckResetToken)
	r.POST("/api/password/reset", ResetPassword)
	r.POST("/api/receipts/send", SendReceipt)
	r.GET("/api/notify/providers", GetProviders)
	return r, w
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

var resetURLRe = regexp.MustCompile(`https://pos\.example\.com/reset-password\?[^"<\s]+`)

// extractResetURL digs the reset link out of the rendered email body.
func extractResetURL(body string) (*url.URL, error) {
	m := resetURLRe.FindString(body)
	if m == "" {
		return nil, errors.New("no reset link in body")
	}
	return url.Parse(html.UnescapeString(m))
}

func TestForgotCheckResetFlow(t *testing.T) {
	sender := &captureSender{name: "mailketing"}
	r, _ := setupTestRouter(t, sender)

	var changed struct{ email, password string }
	SetPasswordChanger(func(email, newPassword string) error {
		changed.email, changed.password = email, newPassword
		return nil
	})

	// 1. forgot: the reset email goes out with the link
	rec := postJSON(t, r, "/api/password/forgot", gin.H{"email": "budi@toko.co.id"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "mailketing", body["provider"])
	sentTo, _, sentBody := sender.snapshot()
	require.Equal(t, "budi@toko.co.id", sentTo)
	require.Contains(t, sentBody, "https://pos.example.com/reset-password?")

	// pull the token back out of the link in the email
	u, err := extractResetURL(sentBody)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)

	// 2. check-token: valid, not consumed
	rec = postJSON(t, r, "/api/password/check-token", gin.H{"email": "budi@toko.co.id", "token": token})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "ok", body["reason"])

	// 3. reset: changes the password and consumes the token
	rec = postJSON(t, r, "/api/password/reset", gin.H{
		"email": "budi@toko.co.id", "token": token, "new_password": "rahasia123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "budi@toko.co.id", changed.email)
	assert.Equal(t, "rahasia123", changed.password)

	// 4. the token is single-use
	rec = postJSON(t, r, "/api/password/check-token", gin.H{"email": "budi@toko.co.id", "token": token})
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
}

func TestForgotCooldown(t *testing.T) {
	sender := &captureSender{name: "mailketing"}
	r, _ := setupTestRouter(t, sender)

	rec := postJSON(t, r, "/api/password/forgot", gin.H{"email": "budi@toko.co.id"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, r, "/api/password/forgot", gin.H{"email": "budi@toko.co.id"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestForgotInvalidEmail(t *testing.T) {
	r, _ := setupTestRouter(t, &captureSender{name: "mailketing"})

	rec := postJSON(t, r, "/api/password/forgot", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForgotDeliveryFailureIsReported(t *testing.T) {
	sender := &captureSender{name: "mailketing", err: assert.AnError}
	r, _ := setupTestRouter(t, sender)

	rec := postJSON(t, r, "/api/password/forgot", gin.H{"email": "budi@toko.co.id"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestResetRejectsShortPassword(t *testing.T) {
	r, _ := setupTestRouter(t, &captureSender{name: "mailketing"})

	rec := postJSON(t, r, "/api/password/reset", gin.H{
		"email": "budi@toko.co.id", "token": "whatever", "new_password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendReceiptQueuesAndWarns(t *testing.T) {
	sender := &captureSender{name: "mailketing"}
	r, _ := setupTestRouter(t, sender)

	payload := gin.H{
		"transaction_number": "TRX-2025-0001",
		"customer_name":      "Budi",
		"customer_email":     "budi@toko.co.id",
		"customer_phone":     "", // walk-in without phone
		"store_name":         "Toko Maju",
		"payment_method":     "cash",
		"items": []gin.H{
			{"name": "Kopi Susu", "quantity": 2, "price": 1000, "total": 2000},
		},
		"tax_amount":   100,
		"total_amount": 2100,
		"channels":     []string{"email", "whatsapp"},
	}

	rec := postJSON(t, r, "/api/receipts/send", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	queued, _ := body["queued"].([]any)
	require.Len(t, queued, 1)
	assert.Equal(t, "email", queued[0])

	warnings, _ := body["warnings"].([]any)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "WhatsApp")

	require.Eventually(t, func() bool {
		to, _, _ := sender.snapshot()
		return to == "budi@toko.co.id"
	}, 2*time.Second, 10*time.Millisecond, "worker never delivered the email")
	_, subject, _ := sender.snapshot()
	assert.Contains(t, subject, "TRX-2025-0001")
}

func TestSendReceiptRejectsBadPayload(t *testing.T) {
	r, _ := setupTestRouter(t, &captureSender{name: "mailketing"})

	// no items
	rec := postJSON(t, r, "/api/receipts/send", gin.H{
		"transaction_number": "TRX-1",
		"total_amount":       2100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// zero total
	rec = postJSON(t, r, "/api/receipts/send", gin.H{
		"transaction_number": "TRX-1",
		"items":              []gin.H{{"name": "Kopi", "quantity": 1, "price": 1000}},
		"total_amount":       0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProviders(t *testing.T) {
	r, _ := setupTestRouter(t, &captureSender{name: "mailketing"})

	req := httptest.NewRequest(http.MethodGet, "/api/notify/providers", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	email, _ := body["email"].(map[string]any)
	require.NotNil(t, email)
	assert.Equal(t, true, email["available"])

	whatsapp, _ := body["whatsapp"].(map[string]any)
	require.NotNil(t, whatsapp)
	assert.Equal(t, false, whatsapp["available"])
}
