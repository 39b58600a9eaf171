package admin

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"parkwise/metrics"
	"parkwise/models"
	"parkwise/services/parking"
	"parkwise/services/qr"
	"parkwise/utils"

	"go.uber.org/zap"
)

// ScanImage decodes a photographed QR code and verifies it.
func (a *DefaultAdminService) ScanImage(ctx context.Context, img []byte) (*models.ScanResult, error) {
	payload, err := a.QR.Decode(ctx, img)
	if err != nil {
		if errors.Is(err, qr.ErrUnreadable) {
			metrics.QRScans.WithLabelValues("unreadable").Inc()
			return nil, utils.NewValidationError("Could not read a QR code from the image")
		}
		return nil, utils.NewInternalError(err)
	}
	return a.VerifyPayload(ctx, payload)
}

// VerifyPayload checks that a decoded payload proves a vehicle is currently parked: it must
// be the occupied code the referenced slot holds right now.
func (a *DefaultAdminService) VerifyPayload(ctx context.Context, payload string) (*models.ScanResult, error) {
	result, err := a.verify(ctx, strings.TrimSpace(payload))
	if err != nil {
		return nil, err
	}
	label := "valid"
	if !result.Valid {
		label = "invalid"
	}
	metrics.QRScans.WithLabelValues(label).Inc()
	utils.GetLogger().Info("QR code scanned", zap.Bool("valid", result.Valid), zap.String("message", result.Message))
	return result, nil
}

func invalid(msg string) *models.ScanResult {
	return &models.ScanResult{Valid: false, Message: msg}
}

func (a *DefaultAdminService) verify(ctx context.Context, payload string) (*models.ScanResult, error) {
	if payload == "" {
		return nil, utils.NewValidationError("QR data is required")
	}
	if strings.HasPrefix(payload, models.StaticSlotPayload("")) {
		return invalid("This is a slot label, not a parking pass"), nil
	}

	var p models.QRPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil || p.SlotID == "" {
		return invalid("Unrecognized QR code"), nil
	}
	if p.Type != models.QROccupied {
		return invalid("Reservation codes are not parking passes"), nil
	}

	slot, err := a.Slots.GetByID(ctx, p.SlotID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if slot == nil {
		return invalid("Slot not found"), nil
	}
	if slot.Status != models.SlotOccupied || slot.ParkedTime == nil {
		return invalid("Slot is not currently occupied"), nil
	}
	if p.UserID != slot.BookedBy {
		return invalid("QR code does not belong to the current booking"), nil
	}
	if !strings.EqualFold(p.VehicleNumber, slot.VehicleNumber) {
		return invalid("Vehicle number does not match"), nil
	}
	if payload != slot.OccupiedQRCode {
		return invalid("QR code has been superseded"), nil
	}

	return &models.ScanResult{
		Valid:   true,
		Message: "Valid parking",
		Slot: &models.SlotWithDuration{
			Slot:     *slot,
			Duration: parking.ComputeDuration(*slot.ParkedTime, a.now()),
		},
	}, nil
}
