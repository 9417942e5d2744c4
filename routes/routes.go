package routes

import (
	"github.com/gin-gonic/gin"

	"yourrest-api/handlers"
	"yourrest-api/middleware"
	"yourrest-api/models"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, uploadsDir string) {
	authRequired := middleware.AuthRequired(h.Auth)

	r.GET("/health", h.Health)
	if uploadsDir != "" {
		r.Static("/uploads", uploadsDir)
	}

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.GET("/auth/verify", h.VerifyEmail)
		public.POST("/contact", h.SendContactMessage)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.POST("/auth/logout", h.Logout)
		auth.POST("/auth/verification", h.SendVerification)
		auth.GET("/session", h.Session)

		auth.GET("/menu", h.GetMenu)

		auth.POST("/orders", h.PlaceOrder)
		auth.GET("/orders", h.GetMyOrders)
		auth.PUT("/orders/:id/cancel", h.CancelOrder)
		auth.GET("/orders/:id/history", h.GetOrderHistory)

		auth.POST("/checkouts/:id/complete", h.CompleteCheckout)
		auth.POST("/checkouts/:id/cancel", h.CancelCheckout)

		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)
	}

	r.POST("/payment", authRequired, h.CreatePaymentOrder)

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(authRequired, middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/menu", h.AddMenuItem)
		admin.PUT("/menu/:id", h.UpdateMenuItem)
		admin.DELETE("/menu/:id", h.DeleteMenuItem)

		admin.GET("/orders", h.AdminGetAllOrders)
		admin.PUT("/orders/:id/advance", h.AdminAdvanceOrder)
	}
}
