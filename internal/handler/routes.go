package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/ncastro/gymkeep-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, clientHandler *ClientHandler, paymentHandler *PaymentHandler, reminderHandler *ReminderHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (register and login are public, the rest need a session)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	authed := auth.Group("")
	authed.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	authed.GET("/me", authHandler.Me)
	authed.PUT("/pin", authHandler.SetPIN)
	authed.POST("/pin/unlock", authHandler.UnlockPIN)

	// Client routes (protected)
	clients := api.Group("/clients")
	clients.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	clients.GET("", clientHandler.ListClients)
	clients.POST("", clientHandler.CreateClient)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)
	clients.GET("/:id/markers", clientHandler.GetMarkers)
	clients.GET("/:id/emails", clientHandler.GetEmailHistory)

	// Payment routes (protected)
	payments := api.Group("/payments")
	payments.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	payments.POST("", paymentHandler.RegisterPayment)
	payments.GET("", paymentHandler.ListPayments)

	// Reminder sweep (authenticated by shared secret header)
	api.POST("/reminders/sweep", reminderHandler.Sweep)
}
