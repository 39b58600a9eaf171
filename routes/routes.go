package routes

import (
	"time"

	"parkwise/handlers"
	"parkwise/middleware"
	"parkwise/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)
		api.GET("/verify", middleware.JWTAuthMiddleware(hb.Verifier), hb.VerifyHandler)
	}
}

// RegisterParkingRoutes registers the user side of the slot lifecycle.
func RegisterParkingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/parking")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Verifier))
		api.GET("/slots", hb.ListSlotsHandler)
		api.GET("/booking", hb.GetBookingHandler)
		api.GET("/qrcode", hb.QRCodeHandler)
		api.GET("/history", hb.HistoryHandler)
		api.POST("/reserve", hb.ReserveHandler)
		api.POST("/request-occupied", hb.RequestOccupiedHandler)
		api.POST("/request-leaving", hb.RequestLeavingHandler)
		api.POST("/payment", hb.PaymentHandler)
		api.POST("/cancel", hb.CancelHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	ah := hb.AdminHandler
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(hb.Verifier), middleware.RequireRole(models.RoleAdmin))
		adminGroup.GET("/stats", ah.StatsHandler)

		adminGroup.GET("/slots", ah.ListSlotsHandler)
		adminGroup.PUT("/slots/:slotId/status", ah.ForceStatusHandler)
		adminGroup.POST("/slots/:slotId/release", ah.ReleaseHandler)

		adminGroup.GET("/requests", ah.ListRequestsHandler)
		adminGroup.POST("/requests/:slotId/approve-occupied", ah.ApproveOccupiedHandler)
		adminGroup.POST("/requests/:slotId/reject-occupied", ah.RejectOccupiedHandler)
		adminGroup.POST("/requests/:slotId/approve-leaving", ah.ApproveLeavingHandler)

		adminGroup.GET("/users", ah.ListUsersHandler)
		adminGroup.POST("/users/:userId/block", ah.BlockUserHandler)
		adminGroup.POST("/users/:userId/unblock", ah.UnblockUserHandler)

		adminGroup.POST("/scan-qr", ah.ScanQRHandler)
		adminGroup.GET("/history", ah.HistoryHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterParkingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
