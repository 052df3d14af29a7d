package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vibepos/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailketingSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		got = map[string]string{}
		for k := range r.MultipartForm.Value {
			got[k] = r.FormValue(k)
		}
		w.Write([]byte(`{"status":"success","response":"queued"}`))
	}))
	defer srv.Close()

	m, err := NewMailketing(srv.URL, "tok123", "Toko Maju", "noreply@toko.co.id")
	require.NoError(t, err)
	m.Client = srv.Client()

	err = m.Send(context.Background(), "budi@toko.co.id", "Struk", "<p>hi</p>")
	require.NoError(t, err)

	assert.Equal(t, "tok123", got["api_token"])
	assert.Equal(t, "Toko Maju", got["from_name"])
	assert.Equal(t, "noreply@toko.co.id", got["from_email"])
	assert.Equal(t, "budi@toko.co.id", got["recipient"])
	assert.Equal(t, "Struk", got["subject"])
	assert.Equal(t, "<p>hi</p>", got["content"])
}

func TestMailketingRejectedWithFriendlyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","response":"No Credits, Please Top Up"}`))
	}))
	defer srv.Close()

	m, err := NewMailketing(srv.URL, "tok123", "Toko", "noreply@toko.co.id")
	require.NoError(t, err)
	m.Client = srv.Client()

	err = m.Send(context.Background(), "budi@toko.co.id", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credits habis")
}

func TestMailketingOptimistic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	m, err := NewMailketing(srv.URL, "tok123", "Toko", "noreply@toko.co.id")
	require.NoError(t, err)
	m.Client = srv.Client()
	m.OptimisticOK = true

	// the request reached the server; optimistic mode ignores what came back
	assert.NoError(t, m.Send(context.Background(), "budi@toko.co.id", "s", "b"))
	assert.True(t, m.Optimistic())
}

func TestMailketingRequiresConfig(t *testing.T) {
	_, err := NewMailketing("https://api", "", "Toko", "noreply@toko.co.id")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewMailketing("https://api", "tok", "Toko", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestWAHASend(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	wh, err := NewWAHA(srv.URL+"/", "vibepos")
	require.NoError(t, err)
	wh.Client = srv.Client()

	require.NoError(t, wh.Send(context.Background(), "081234567890", "", "halo"))
	assert.Equal(t, "/api/sendText", gotPath)
	assert.Equal(t, "vibepos", gotBody["session"])
	assert.Equal(t, "6281234567890@c.us", gotBody["chatId"])
	assert.Equal(t, "halo", gotBody["text"])
}

func TestWAHADefaultSession(t *testing.T) {
	wh, err := NewWAHA("http://waha.local", "")
	require.NoError(t, err)
	assert.Equal(t, "default", wh.SessionID)
}

func TestDripSenderSend(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	d, err := NewDripSender(srv.URL, "key123", "dev42")
	require.NoError(t, err)
	d.Client = srv.Client()

	require.NoError(t, d.Send(context.Background(), "081234567890", "", "halo"))
	assert.Equal(t, "Bearer key123", gotAuth)
	assert.Equal(t, "6281234567890", gotBody["phone"])
	assert.Equal(t, "halo", gotBody["message"])
	assert.Equal(t, "dev42", gotBody["device_id"])
}

func TestStarSenderSend(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	// trailing /send must be stripped off the configured URL
	s, err := NewStarSender(srv.URL+"/send", "key123", "dev42")
	require.NoError(t, err)
	s.Client = srv.Client()

	require.NoError(t, s.Send(context.Background(), "081234567890", "", "halo"))
	assert.Equal(t, "/sendText", gotPath)
	assert.Equal(t, "key123", gotKey)
	assert.Equal(t, "dev42", gotQuery["id_device"])
	assert.Equal(t, "halo", gotQuery["message"])
	assert.Equal(t, "6281234567890@s.whatsapp.net", gotQuery["tujuan"])
}

func TestWablasSend(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	wb, err := NewWablas(srv.URL, "key123")
	require.NoError(t, err)
	wb.Client = srv.Client()

	require.NoError(t, wb.Send(context.Background(), "081234567890", "", "halo"))
	// raw key, no Bearer prefix
	assert.Equal(t, "key123", gotAuth)
	assert.Equal(t, "/api/send-message", gotPath)
	assert.Equal(t, "6281234567890", gotBody["phone"])
	assert.Equal(t, false, gotBody["isGroup"])
}

func TestGatewayErrorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "device offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	wh, err := NewWAHA(srv.URL, "default")
	require.NoError(t, err)
	wh.Client = srv.Client()

	err = wh.Send(context.Background(), "081234567890", "", "halo")
	require.Error(t, err)

	var apiErr APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "waha", apiErr.Provider)
}

func TestParsePlatform(t *testing.T) {
	for _, s := range []string{"waha", " WAHA ", "DripSender", "starsender", "wablas"} {
		_, err := ParsePlatform(s)
		assert.NoError(t, err, "platform %q", s)
	}
	_, err := ParsePlatform("telegram")
	assert.Error(t, err)
}

func TestChatSenderSelection(t *testing.T) {
	cases := []struct {
		cfg  config.ChatConfig
		name string
	}{
		{config.ChatConfig{Platform: "waha", ApiURL: "http://w"}, "waha"},
		{config.ChatConfig{Platform: "dripsender", ApiURL: "http://d", ApiKey: "k", DeviceID: "d1"}, "dripsender"},
		{config.ChatConfig{Platform: "starsender", ApiURL: "http://s", ApiKey: "k", DeviceID: "d1"}, "starsender"},
		{config.ChatConfig{Platform: "wablas", ApiURL: "http://b", ApiKey: "k"}, "wablas"},
	}
	for _, c := range cases {
		s, err := ChatSender(c.cfg)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.name, s.Name())
		assert.Equal(t, KindWhatsApp, s.Kind())
	}

	_, err := ChatSender(config.ChatConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = ChatSender(config.ChatConfig{Platform: "dripsender"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestEmailSendersChain(t *testing.T) {
	senders := EmailSenders(config.EmailConfig{
		FromName:        "Toko",
		FromEmail:       "noreply@toko.co.id",
		MailketingURL:   "https://api.mailketing.co.id/api/v1/send",
		MailketingToken: "tok",
		SmtpHost:        "smtp.toko.co.id",
		SmtpPort:        587,
	})
	require.Len(t, senders, 2)
	assert.Equal(t, "mailketing", senders[0].Name())
	assert.Equal(t, "smtp", senders[1].Name())

	// nothing configured: empty chain, not an error
	assert.Empty(t, EmailSenders(config.EmailConfig{}))
}
