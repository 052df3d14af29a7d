package controllers

import (
	"context"

	"vibepos/config"
	"vibepos/dispatch"
	"vibepos/tokens"
	"vibepos/workers"

	"github.com/gin-gonic/gin"
)

var (
	notifyCfg    config.Configuration
	tokenSvc     *tokens.Service
	dispatcher   *dispatch.Dispatcher
	notifyWorker *workers.NotifyWorker

	// changePassword hands the verified reset to the identity layer. The
	// notify core only gates the change; it never touches stored passwords.
	changePassword func(email, newPassword string) error
)

// SetupNotify wires the notification services into the handlers. Call once at
// boot, before the router starts serving.
func SetupNotify(cfg config.Configuration, ts *tokens.Service, d *dispatch.Dispatcher, w *workers.NotifyWorker) {
	notifyCfg = cfg
	tokenSvc = ts
	dispatcher = d
	notifyWorker = w
}

// SetPasswordChanger registers the identity-layer hook used by ResetPassword.
func SetPasswordChanger(fn func(email, newPassword string) error) {
	changePassword = fn
}

func requestCtx(c *gin.Context) context.Context {
	if c != nil && c.Request != nil {
		return c.Request.Context()
	}
	return context.Background()
}
