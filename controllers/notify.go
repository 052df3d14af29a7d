package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"vibepos/dispatch"
	"vibepos/tools"

	"github.com/gin-gonic/gin"
)

// POST /api/notify/test-email (admin)
// Body: { "email": "..." }
// Sends a short probe message through the real email chain so the operator can
// confirm the provider configuration before going live.
func TestEmail(c *gin.Context) {
	type Request struct {
		Email string `json:"email" form:"email"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondError(c, "payload inválido", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if !tools.ValidateEmail(req.Email) {
		RespondError(c, "email inválido", http.StatusBadRequest)
		return
	}

	if !dispatcher.Available(dispatch.ChannelEmail) {
		RespondError(c, dispatch.ErrNoProvider.Error(), http.StatusServiceUnavailable)
		return
	}

	res := dispatcher.DispatchRaw(requestCtx(c), dispatch.ChannelEmail, req.Email,
		"Test Email VibePOS",
		fmt.Sprintf("<p>Email konfigurasi VibePOS berhasil terkirim pada %s.</p>",
			time.Now().Format("02/01/2006 15:04")))

	if !res.Succeeded {
		RespondSuccess(c, gin.H{"success": false, "message": res.Diagnostic})
		return
	}
	RespondSuccess(c, gin.H{"success": true, "provider": res.Provider, "optimistic": res.Optimistic})
}

// GET /api/notify/providers (admin)
// Reports which channels are usable and through which senders, so the POS
// settings screen can warn about degraded delivery.
func GetProviders(c *gin.Context) {
	RespondSuccess(c, gin.H{
		"email": gin.H{
			"available": dispatcher.Available(dispatch.ChannelEmail),
			"providers": dispatcher.Providers(dispatch.ChannelEmail),
		},
		"whatsapp": gin.H{
			"available": dispatcher.Available(dispatch.ChannelWhatsApp),
			"providers": dispatcher.Providers(dispatch.ChannelWhatsApp),
			"platform":  notifyCfg.Chat.Platform,
		},
	})
}
