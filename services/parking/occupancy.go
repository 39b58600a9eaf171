package parking

import (
	"context"

	"go.uber.org/zap"

	"parkwise/metrics"
	"parkwise/models"
	"parkwise/utils"
)

// RequestOccupied asks an admin to confirm the caller has arrived. It is refused
// before the reservation's arrival time.
func (s *DefaultParkingService) RequestOccupied(ctx context.Context, userID string) (*models.Slot, error) {
	slot, err := s.Slots.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if slot == nil || slot.Status != models.SlotReserved {
		return nil, ErrNoReservation
	}

	now := s.now()
	if slot.ArrivalTime != nil && now.Before(*slot.ArrivalTime) {
		return nil, ErrBeforeArrival.WithField("arrivalTime", slot.ArrivalTime.UTC())
	}

	slot.OccupiedRequestStatus = models.RequestPending
	if err := s.Slots.Save(ctx, slot); err != nil {
		return nil, mapSaveError(err)
	}

	metrics.RecordTransition("request_occupied")
	utils.GetLogger().Info("Occupied status requested", zap.String("slotId", slot.ID), zap.String("userId", userID))
	return slot, nil
}

func pendingOccupied(slot *models.Slot) bool {
	return slot.Status == models.SlotReserved && slot.OccupiedRequestStatus == models.RequestPending
}

// ApproveOccupied starts the parking clock and swaps the reservation proof for an
// occupancy proof.
func (s *DefaultParkingService) ApproveOccupied(ctx context.Context, slotID string) (*ApprovalResult, error) {
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !pendingOccupied(slot) {
		return nil, ErrNoOccupiedRequest
	}

	now := s.now()
	payload, err := encodePayload(models.QRPayload{
		SlotID:        slot.ID,
		UserID:        slot.BookedBy,
		VehicleNumber: slot.VehicleNumber,
		Type:          models.QROccupied,
		ParkedTime:    &now,
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	image, err := s.QR.Encode(ctx, payload)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	slot.Status = models.SlotOccupied
	slot.ParkedTime = &now
	slot.OccupiedQRCode = payload
	slot.ReservationQRCode = ""
	slot.OccupiedRequestStatus = ""
	if err := s.Slots.Save(ctx, slot); err != nil {
		return nil, mapSaveError(err)
	}

	metrics.RecordTransition("approve_occupied")
	utils.GetLogger().Info("Occupied request approved", zap.String("slotId", slot.ID), zap.String("userId", slot.BookedBy))
	return &ApprovalResult{Slot: slot, QRCode: image}, nil
}

// RejectOccupied closes the request and leaves the reservation in place.
func (s *DefaultParkingService) RejectOccupied(ctx context.Context, slotID string) (*models.Slot, error) {
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !pendingOccupied(slot) {
		return nil, ErrNoOccupiedRequest
	}

	slot.OccupiedRequestStatus = ""
	if err := s.Slots.Save(ctx, slot); err != nil {
		return nil, mapSaveError(err)
	}

	metrics.RecordTransition("reject_occupied")
	utils.GetLogger().Info("Occupied request rejected", zap.String("slotId", slot.ID), zap.String("userId", slot.BookedBy))
	return slot, nil
}

func (s *DefaultParkingService) loadSlot(ctx context.Context, slotID string) (*models.Slot, error) {
	slot, err := s.Slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}
