package controllers

import (
	"log"
	"net/http"
	"strings"

	dbpkg "vibepos/db"
	"vibepos/dispatch"
	"vibepos/format"
	"vibepos/models"
	"vibepos/tokens"
	"vibepos/tools"

	"github.com/gin-gonic/gin"
)

// POST /api/password/forgot (public)
// Body: { "email": "..." }
// Mints a reset credential and emails the link. Synchronous: the UI waits for
// the outcome before telling the user anything.
func ForgotPassword(c *gin.Context) {
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

	rec, err := tokenSvc.Issue(req.Email)
	if err == tokens.ErrCooldown {
		// double-submit de formulário; o primeiro email já está a caminho
		RespondError(c, "email reset baru saja dikirim, tunggu 5 detik", http.StatusTooManyRequests)
		return
	}
	if err != nil {
		log.Printf("forgot password: issue failed email=%s err=%v", req.Email, err)
		RespondError(c, "não foi possível gerar o link de reset", http.StatusInternalServerError)
		return
	}

	link := format.ResetLink(notifyCfg.Reset.BaseURL, req.Email, rec.Token)
	res := dispatcher.Dispatch(requestCtx(c), dispatch.Request{
		Channel:     dispatch.ChannelEmail,
		To:          req.Email,
		DisplayName: strings.SplitN(req.Email, "@", 2)[0],
		Kind:        dispatch.KindReset,
		ResetLink:   link,
	})

	logResetDelivery(c, req.Email, res)

	if !res.Succeeded {
		log.Printf("forgot password: dispatch failed email=%s diag=%s", req.Email, res.Diagnostic)
		RespondSuccess(c, gin.H{"success": false, "message": res.Diagnostic})
		return
	}
	RespondSuccess(c, gin.H{"success": true, "provider": res.Provider})
}

// POST /api/password/check-token (public)
// Body: { "email": "...", "token": "..." }
// Does not consume the token.
func CheckResetToken(c *gin.Context) {
	type Request struct {
		Email string `json:"email" form:"email"`
		Token string `json:"token" form:"token"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondSuccess(c, gin.H{"valid": false, "reason": tokens.ReasonNotFound})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)
	if req.Email == "" || req.Token == "" {
		RespondSuccess(c, gin.H{"valid": false, "reason": tokens.ReasonNotFound})
		return
	}

	v := tokenSvc.Verify(req.Email, req.Token)
	RespondSuccess(c, gin.H{"valid": v.Valid, "reason": v.Reason})
}

// POST /api/password/reset (public)
// Body: { "email": "...", "token": "...", "new_password": "..." }
// Verifies, delegates the actual credential update to the identity layer,
// then consumes the token.
func ResetPassword(c *gin.Context) {
	type Request struct {
		Email       string `json:"email" form:"email"`
		Token       string `json:"token" form:"token"`
		NewPassword string `json:"new_password" form:"new_password"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondSuccess(c, gin.H{"success": false})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)
	req.NewPassword = strings.TrimSpace(req.NewPassword)

	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		RespondSuccess(c, gin.H{"success": false})
		return
	}
	if field := tools.CheckPassword(req.NewPassword); field != "" {
		RespondError(c, "senha muito curta", http.StatusBadRequest)
		return
	}

	v := tokenSvc.Verify(req.Email, req.Token)
	if !v.Valid {
		RespondSuccess(c, gin.H{"success": false, "reason": v.Reason})
		return
	}

	if changePassword != nil {
		if err := changePassword(req.Email, req.NewPassword); err != nil {
			log.Printf("reset password: identity update failed email=%s err=%v", req.Email, err)
			RespondSuccess(c, gin.H{"success": false, "reason": "update_failed"})
			return
		}
	}

	tokenSvc.Consume(req.Email)
	RespondSuccess(c, gin.H{"success": true})
}

func logResetDelivery(c *gin.Context, email string, res dispatch.Result) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		return
	}
	status := models.DELIVERY_STATUS_SENT
	if !res.Succeeded {
		status = models.DELIVERY_STATUS_FAILED
	}
	row := models.DeliveryLog{
		Kind:       string(dispatch.KindReset),
		Channel:    string(dispatch.ChannelEmail),
		Recipient:  email,
		Provider:   res.Provider,
		Status:     status,
		Diagnostic: res.Diagnostic,
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("forgot password: delivery log write failed: %v", err)
	}
}
