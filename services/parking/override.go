package parking

import (
	"context"

	"go.uber.org/zap"

	"parkwise/metrics"
	"parkwise/models"
	"parkwise/utils"
)

// ForceStatus sets a slot's status without touching any other field. It bypasses the
// transition guards and is meant for maintenance.
func (s *DefaultParkingService) ForceStatus(ctx context.Context, slotID string, status models.SlotStatus) (*models.Slot, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	previous := slot.Status
	slot.Status = status
	if err := s.Slots.Save(ctx, slot); err != nil {
		return nil, mapSaveError(err)
	}

	metrics.RecordTransition("force_status")
	utils.GetLogger().Warn("Slot status overridden",
		zap.String("slotId", slot.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))
	return slot, nil
}

// Release clears a slot back to available, discarding any booking on it.
func (s *DefaultParkingService) Release(ctx context.Context, slotID string) (*models.Slot, error) {
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status == models.SlotAvailable {
		return nil, ErrAlreadyAvailable
	}

	bookedBy := slot.BookedBy
	slot.Reset()
	if err := s.Slots.Save(ctx, slot); err != nil {
		return nil, mapSaveError(err)
	}

	metrics.RecordTransition("release")
	utils.GetLogger().Warn("Slot released", zap.String("slotId", slot.ID), zap.String("previousUser", bookedBy))
	return slot, nil
}
