package parking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parkwise/metrics"
	"parkwise/models"
	"parkwise/utils"
)

// RequestLeaving freezes the bill: cost is computed once here and the slot moves to
// leaving with a pending payment.
func (s *DefaultParkingService) RequestLeaving(ctx context.Context, userID string) (*models.SlotWithDuration, error) {
	slot, err := s.Slots.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if slot == nil || slot.Status != models.SlotOccupied {
		return nil, ErrNoParking
	}
	if slot.ParkedTime == nil {
		return nil, ErrParkedTimeMissing
	}

	now := s.now()
	slot.Status = models.SlotLeaving
	slot.LeavingRequestStatus = models.RequestPending
	slot.LeavingRequestTime = &now
	slot.Cost = CalculateCost(*slot.ParkedTime, now, s.rate())
	slot.PaymentStatus = models.PaymentPending
	if err := s.Slots.Save(ctx, slot); err != nil {
		return nil, mapSaveError(err)
	}

	metrics.RecordTransition("request_leaving")
	utils.GetLogger().Info("Leaving requested",
		zap.String("slotId", slot.ID),
		zap.String("userId", userID),
		zap.Int64("cost", slot.Cost))

	return &models.SlotWithDuration{Slot: *slot, Duration: ComputeDuration(*slot.ParkedTime, now)}, nil
}

// Pay settles the frozen bill. Only a pending or previously failed payment can be paid.
func (s *DefaultParkingService) Pay(ctx context.Context, userID string, req PayRequest) (*models.Slot, error) {
	logger := utils.GetLogger()

	slot, err := s.Slots.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if slot == nil || slot.Status != models.SlotLeaving ||
		(slot.PaymentStatus != models.PaymentPending && slot.PaymentStatus != models.PaymentFailed) {
		return nil, ErrNoPendingPayment
	}

	reference := "free"
	if slot.Cost > 0 {
		reference, err = s.Payments.Charge(ctx, PaymentRequest{
			SlotID:          slot.ID,
			UserID:          userID,
			Amount:          slot.Cost,
			Currency:        s.Currency,
			PaymentMethodID: req.PaymentMethodID,
		})
		if errors.Is(err, ErrMissingPaymentMethod) {
			return nil, ErrPaymentMethodRequired
		}
		if err != nil {
			logger.Warn("Payment charge failed", zap.String("slotId", slot.ID), zap.String("userId", userID), zap.Error(err))
			metrics.Payments.WithLabelValues(string(models.PaymentFailed)).Inc()
			slot.PaymentStatus = models.PaymentFailed
			if saveErr := s.Slots.Save(ctx, slot); saveErr != nil {
				return nil, mapSaveError(saveErr)
			}
			return nil, ErrPaymentFailed
		}
	}

	now := s.now()
	slot.PaymentStatus = models.PaymentPaid
	slot.PaymentTime = &now
	slot.PaymentReference = reference
	if err := s.Slots.Save(ctx, slot); err != nil {
		// The charge went through; keep the reference in the log for reconciliation.
		logger.Error("Failed to record payment",
			zap.String("slotId", slot.ID),
			zap.String("reference", reference),
			zap.Error(err))
		return nil, mapSaveError(err)
	}

	metrics.Payments.WithLabelValues(string(models.PaymentPaid)).Inc()
	metrics.RecordTransition("pay")
	logger.Info("Payment recorded",
		zap.String("slotId", slot.ID),
		zap.String("userId", userID),
		zap.Int64("amount", slot.Cost))
	return slot, nil
}

// ApproveLeaving archives the finished transaction and frees the slot in one atomic
// write. The leaving request must be paid.
func (s *DefaultParkingService) ApproveLeaving(ctx context.Context, slotID, adminID string) (*models.CompletedParking, error) {
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != models.SlotLeaving || slot.LeavingRequestStatus != models.RequestPending {
		return nil, ErrNoLeavingRequest
	}
	if slot.PaymentStatus != models.PaymentPaid {
		return nil, ErrPaymentIncomplete
	}
	if slot.ReservationTime == nil || slot.ArrivalTime == nil || slot.ParkedTime == nil ||
		slot.LeavingRequestTime == nil || slot.PaymentTime == nil {
		return nil, ErrIncompleteLifecycle
	}

	now := s.now()
	record := &models.CompletedParking{
		ID:                 uuid.New().String(),
		SlotID:             slot.ID,
		VehicleNumber:      slot.VehicleNumber,
		User:               slot.BookedBy,
		ReservationTime:    *slot.ReservationTime,
		ArrivalTime:        *slot.ArrivalTime,
		ParkedTime:         *slot.ParkedTime,
		LeavingRequestTime: *slot.LeavingRequestTime,
		CompletedTime:      now,
		Duration:           ComputeDuration(*slot.ParkedTime, *slot.LeavingRequestTime),
		Cost:               slot.Cost,
		PaymentStatus:      slot.PaymentStatus,
		PaymentTime:        *slot.PaymentTime,
		PaymentReference:   slot.PaymentReference,
		ApprovedBy:         adminID,
		CreatedAt:          now,
	}

	slot.Reset()
	if err := s.Slots.SaveWithArchive(ctx, slot, record); err != nil {
		return nil, mapSaveError(err)
	}

	metrics.Revenue.Add(float64(record.Cost))
	metrics.RecordTransition("approve_leaving")
	utils.GetLogger().Info("Parking completed",
		zap.String("slotId", record.SlotID),
		zap.String("userId", record.User),
		zap.String("approvedBy", adminID),
		zap.Int64("cost", record.Cost))
	return record, nil
}
