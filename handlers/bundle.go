package handlers

import (
	"parkwise/middleware"
	"parkwise/services/admin"
	"parkwise/services/parking"
	"parkwise/services/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Verifier middleware.TokenVerifier

	// Auth endpoints
	RegisterHandler gin.HandlerFunc
	LoginHandler    gin.HandlerFunc
	VerifyHandler   gin.HandlerFunc

	// Parking endpoints
	ListSlotsHandler       gin.HandlerFunc
	GetBookingHandler      gin.HandlerFunc
	ReserveHandler         gin.HandlerFunc
	RequestOccupiedHandler gin.HandlerFunc
	RequestLeavingHandler  gin.HandlerFunc
	PaymentHandler         gin.HandlerFunc
	CancelHandler          gin.HandlerFunc
	QRCodeHandler          gin.HandlerFunc
	HistoryHandler         gin.HandlerFunc

	// Admin endpoints
	AdminHandler *AdminHandler

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires every endpoint handler to its service.
func NewHandlerBundle(us user.UserService, ps parking.ParkingService, as admin.AdminService) *HandlerBundle {
	authHandler := NewAuthHandler(us)
	parkingHandler := NewParkingHandler(ps)

	return &HandlerBundle{
		Verifier: us,

		RegisterHandler: authHandler.RegisterHandler,
		LoginHandler:    authHandler.LoginHandler,
		VerifyHandler:   authHandler.VerifyHandler,

		ListSlotsHandler:       parkingHandler.ListSlotsHandler,
		GetBookingHandler:      parkingHandler.GetBookingHandler,
		ReserveHandler:         parkingHandler.ReserveHandler,
		RequestOccupiedHandler: parkingHandler.RequestOccupiedHandler,
		RequestLeavingHandler:  parkingHandler.RequestLeavingHandler,
		PaymentHandler:         parkingHandler.PaymentHandler,
		CancelHandler:          parkingHandler.CancelHandler,
		QRCodeHandler:          parkingHandler.QRCodeHandler,
		HistoryHandler:         parkingHandler.HistoryHandler,

		AdminHandler: NewAdminHandler(as, ps),

		HealthHandler: HealthHandler,
	}
}
