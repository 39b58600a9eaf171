package handlers

import (
	"errors"
	"io"
	"net/http"

	"parkwise/middleware"
	"parkwise/services/parking"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ParkingHandler struct {
	ParkingService parking.ParkingService
}

func NewParkingHandler(svc parking.ParkingService) *ParkingHandler {
	return &ParkingHandler{ParkingService: svc}
}

// ListSlotsHandler handles GET /api/parking/slots.
func (h *ParkingHandler) ListSlotsHandler(c *gin.Context) {
	slots, err := h.ParkingService.ListSlots(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetBookingHandler handles GET /api/parking/booking. It responds with null when the
// caller holds no slot.
func (h *ParkingHandler) GetBookingHandler(c *gin.Context) {
	booking, err := h.ParkingService.GetBooking(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ReserveHandler handles POST /api/parking/reserve.
func (h *ParkingHandler) ReserveHandler(c *gin.Context) {
	var req parking.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("Invalid reservation payload", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.ParkingService.Reserve(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Slot reserved successfully",
		"booking": res.Booking,
		"qrCode":  res.QRCode,
	})
}

// RequestOccupiedHandler handles POST /api/parking/request-occupied.
func (h *ParkingHandler) RequestOccupiedHandler(c *gin.Context) {
	slot, err := h.ParkingService.RequestOccupied(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Occupied request submitted. Waiting for admin approval.",
		"slot":    slot,
	})
}

// RequestLeavingHandler handles POST /api/parking/request-leaving.
func (h *ParkingHandler) RequestLeavingHandler(c *gin.Context) {
	slot, err := h.ParkingService.RequestLeaving(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Leaving request submitted. Please make payment.",
		"slot":    slot,
	})
}

// PaymentHandler handles POST /api/parking/payment. The body is optional.
func (h *ParkingHandler) PaymentHandler(c *gin.Context) {
	var req parking.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	slot, err := h.ParkingService.Pay(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful. Waiting for admin approval.",
		"slot":    slot,
	})
}

// CancelHandler handles POST /api/parking/cancel.
func (h *ParkingHandler) CancelHandler(c *gin.Context) {
	if err := h.ParkingService.Cancel(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled successfully"})
}

// QRCodeHandler handles GET /api/parking/qrcode.
func (h *ParkingHandler) QRCodeHandler(c *gin.Context) {
	code, err := h.ParkingService.CurrentQRCode(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, code)
}

// HistoryHandler handles GET /api/parking/history.
func (h *ParkingHandler) HistoryHandler(c *gin.Context) {
	records, err := h.ParkingService.History(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
