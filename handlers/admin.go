package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"parkwise/middleware"
	"parkwise/models"
	"parkwise/services/admin"
	"parkwise/services/parking"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
)

// maxScanImageBytes bounds uploaded QR photos.
const maxScanImageBytes = 5 << 20

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	AdminService   admin.AdminService
	ParkingService parking.ParkingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(as admin.AdminService, ps parking.ParkingService) *AdminHandler {
	return &AdminHandler{
		AdminService:   as,
		ParkingService: ps,
	}
}

// StatsHandler handles GET /api/admin/stats.
func (ah *AdminHandler) StatsHandler(c *gin.Context) {
	stats, err := ah.AdminService.GetStats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListSlotsHandler handles GET /api/admin/slots.
func (ah *AdminHandler) ListSlotsHandler(c *gin.Context) {
	slots, err := ah.ParkingService.AllSlots(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// ForceStatusHandler handles PUT /api/admin/slots/:slotId/status.
func (ah *AdminHandler) ForceStatusHandler(c *gin.Context) {
	var req struct {
		Status models.SlotStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}

	slot, err := ah.ParkingService.ForceStatus(c.Request.Context(), c.Param("slotId"), req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot status updated", "slot": slot})
}

// ReleaseHandler handles POST /api/admin/slots/:slotId/release.
func (ah *AdminHandler) ReleaseHandler(c *gin.Context) {
	slot, err := ah.ParkingService.Release(c.Request.Context(), c.Param("slotId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot released", "slot": slot})
}

// ListRequestsHandler handles GET /api/admin/requests?type=occupied|leaving.
func (ah *AdminHandler) ListRequestsHandler(c *gin.Context) {
	kind := models.RequestKind(c.DefaultQuery("type", string(models.RequestKindOccupied)))
	requests, err := ah.AdminService.ListRequests(c.Request.Context(), kind)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ApproveOccupiedHandler handles POST /api/admin/requests/:slotId/approve-occupied.
func (ah *AdminHandler) ApproveOccupiedHandler(c *gin.Context) {
	res, err := ah.ParkingService.ApproveOccupied(c.Request.Context(), c.Param("slotId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Occupied request approved",
		"slot":    res.Slot,
		"qrCode":  res.QRCode,
	})
}

// RejectOccupiedHandler handles POST /api/admin/requests/:slotId/reject-occupied.
func (ah *AdminHandler) RejectOccupiedHandler(c *gin.Context) {
	slot, err := ah.ParkingService.RejectOccupied(c.Request.Context(), c.Param("slotId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Occupied request rejected", "slot": slot})
}

// ApproveLeavingHandler handles POST /api/admin/requests/:slotId/approve-leaving.
func (ah *AdminHandler) ApproveLeavingHandler(c *gin.Context) {
	record, err := ah.ParkingService.ApproveLeaving(c.Request.Context(), c.Param("slotId"), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leaving request approved", "record": record})
}

// ListUsersHandler handles GET /api/admin/users?search=.
func (ah *AdminHandler) ListUsersHandler(c *gin.Context) {
	users, err := ah.AdminService.ListUsers(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// BlockUserHandler handles POST /api/admin/users/:userId/block.
func (ah *AdminHandler) BlockUserHandler(c *gin.Context) {
	ah.setBlocked(c, true, "User blocked")
}

// UnblockUserHandler handles POST /api/admin/users/:userId/unblock.
func (ah *AdminHandler) UnblockUserHandler(c *gin.Context) {
	ah.setBlocked(c, false, "User unblocked")
}

func (ah *AdminHandler) setBlocked(c *gin.Context, blocked bool, message string) {
	u, err := ah.AdminService.SetBlocked(c.Request.Context(), c.Param("userId"), blocked)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "user": u})
}

// ScanQRHandler handles POST /api/admin/scan-qr. It accepts a multipart "image" upload
// or a JSON body {"data": "<decoded payload>"} from a client-side scanner.
func (ah *AdminHandler) ScanQRHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "image file is required")
			return
		}
		if fh.Size > maxScanImageBytes {
			utils.JSONError(c, http.StatusBadRequest, "image is too large")
			return
		}
		f, err := fh.Open()
		if err != nil {
			utils.RespondError(c, utils.NewInternalError(err))
			return
		}
		defer f.Close()
		img, err := io.ReadAll(io.LimitReader(f, maxScanImageBytes))
		if err != nil {
			utils.RespondError(c, utils.NewInternalError(err))
			return
		}

		res, err := ah.AdminService.ScanImage(ctx, img)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	var req struct {
		Data string `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Provide an image file or QR data")
		return
	}
	res, err := ah.AdminService.VerifyPayload(ctx, req.Data)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HistoryHandler handles GET /api/admin/history?limit=.
func (ah *AdminHandler) HistoryHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.JSONError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := ah.AdminService.History(c.Request.Context(), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
