package router

import (
	"log"

	"vibepos/config"
	"vibepos/controllers"
	"vibepos/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares. Everything under /api is
// public for now: the password flow is pre-login by nature and the receipt
// flow is called by the POS front-end right after a sale.
func Initialize(r *gin.Engine, cfg config.Configuration) {
	_ = cfg

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	// Password reset flow (pre-login, so always public)
	api.POST("/password/forgot", Logger(), controllers.ForgotPassword)
	api.POST("/password/check-token", Logger(), controllers.CheckResetToken)
	api.POST("/password/reset", Logger(), controllers.ResetPassword)

	// Receipts (chamado pelo front após fechar a venda)
	api.POST("/receipts/send", Logger(), controllers.SendReceipt)
	api.GET("/receipts/deliveries", Logger(), controllers.GetReceiptDeliveries)

	// Operator / settings screen
	api.POST("/notify/test-email", Logger(), controllers.TestEmail)
	api.GET("/notify/providers", Logger(), controllers.GetProviders)

	log.Printf("Routes initialized")
}
