package parking

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"parkwise/metrics"
	"parkwise/models"
	"parkwise/utils"
)

const (
	// arrivalGrace tolerates clients whose clocks run slightly behind.
	arrivalGrace      = time.Minute
	maxArrivalHorizon = 7 * 24 * time.Hour
)

var vehicleNumberPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{2,13}[A-Z0-9]$`)

// NormalizeVehicleNumber uppercases and trims a plate, then checks its shape.
func NormalizeVehicleNumber(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", utils.NewValidationError("vehicleNumber is required")
	}
	if !vehicleNumberPattern.MatchString(v) {
		return "", utils.NewValidationError("Invalid vehicle number")
	}
	return v, nil
}

func (s *DefaultParkingService) parseArrival(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, utils.NewValidationError("arrivalTime is required")
	}
	arrival, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, utils.NewValidationError("arrivalTime must be an RFC3339 timestamp")
	}
	now := s.now()
	if arrival.Before(now.Add(-arrivalGrace)) {
		return time.Time{}, utils.NewValidationError("arrivalTime cannot be in the past")
	}
	if arrival.After(now.Add(maxArrivalHorizon)) {
		return time.Time{}, utils.NewValidationError("arrivalTime must be within 7 days")
	}
	return arrival.UTC(), nil
}

func (s *DefaultParkingService) ListSlots(ctx context.Context, userID string) ([]models.Slot, error) {
	slots, err := s.Slots.GetVisibleTo(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return slots, nil
}

func (s *DefaultParkingService) AllSlots(ctx context.Context) ([]models.Slot, error) {
	slots, err := s.Slots.GetAll(ctx)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return slots, nil
}

// GetBooking returns the caller's active slot, or nil when there is none.
func (s *DefaultParkingService) GetBooking(ctx context.Context, userID string) (*models.Slot, error) {
	slot, err := s.Slots.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return slot, nil
}

func (s *DefaultParkingService) Reserve(ctx context.Context, userID string, req ReserveRequest) (*ReservationResult, error) {
	logger := utils.GetLogger()

	if strings.TrimSpace(req.SlotID) == "" {
		return nil, utils.NewValidationError("slotId is required")
	}
	vehicle, err := NormalizeVehicleNumber(req.VehicleNumber)
	if err != nil {
		return nil, err
	}
	arrival, err := s.parseArrival(req.ArrivalTime)
	if err != nil {
		return nil, err
	}

	existing, err := s.Slots.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if existing != nil {
		return nil, ErrActiveBooking
	}

	slot, err := s.Slots.GetByID(ctx, req.SlotID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.Status != models.SlotAvailable {
		return nil, ErrSlotUnavailable
	}

	payload, err := encodePayload(models.QRPayload{
		SlotID:        slot.ID,
		UserID:        userID,
		VehicleNumber: vehicle,
		Type:          models.QRReservation,
		ArrivalTime:   &arrival,
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	image, err := s.QR.Encode(ctx, payload)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	// A slot forced back to available may still carry an earlier booking's fields.
	slot.Reset()
	now := s.now()
	slot.Status = models.SlotReserved
	slot.BookedBy = userID
	slot.VehicleNumber = vehicle
	slot.ReservationTime = &now
	slot.ArrivalTime = &arrival
	slot.ReservationQRCode = payload
	if err := s.Slots.Save(ctx, slot); err != nil {
		return nil, mapSaveError(err)
	}

	if s.Reminders != nil {
		reminder := models.ArrivalReminder{SlotID: slot.ID, UserID: userID, VehicleNumber: vehicle, ArrivalTime: arrival}
		if err := s.Reminders.ScheduleArrivalReminder(ctx, reminder); err != nil {
			logger.Warn("Failed to schedule arrival reminder", zap.String("slotId", slot.ID), zap.Error(err))
		}
	}

	metrics.RecordTransition("reserve")
	logger.Info("Slot reserved",
		zap.String("slotId", slot.ID),
		zap.String("userId", userID),
		zap.Time("arrivalTime", arrival))

	return &ReservationResult{Booking: slot, QRCode: image}, nil
}

// Cancel releases the caller's reservation. A reservation with an occupied request
// still awaiting approval can be cancelled too.
func (s *DefaultParkingService) Cancel(ctx context.Context, userID string) error {
	slot, err := s.Slots.GetActiveByUser(ctx, userID)
	if err != nil {
		return utils.NewInternalError(err)
	}
	if slot == nil || !cancellable(slot) {
		return ErrNoReservation
	}

	slot.Reset()
	if err := s.Slots.Save(ctx, slot); err != nil {
		return mapSaveError(err)
	}

	metrics.RecordTransition("cancel")
	utils.GetLogger().Info("Reservation cancelled", zap.String("slotId", slot.ID), zap.String("userId", userID))
	return nil
}

func cancellable(slot *models.Slot) bool {
	switch slot.Status {
	case models.SlotReserved:
		return true
	case models.SlotOccupied:
		return slot.OccupiedRequestStatus == models.RequestPending
	default:
		return false
	}
}

// CurrentQRCode renders the proof for the caller's active slot: the reservation code
// before occupancy, the occupancy code after.
func (s *DefaultParkingService) CurrentQRCode(ctx context.Context, userID string) (*QRCodeResult, error) {
	slot, err := s.Slots.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if slot == nil {
		return nil, ErrNoActiveSlot
	}

	payload, kind := slot.ReservationQRCode, models.QRReservation
	if slot.Status != models.SlotReserved {
		payload, kind = slot.OccupiedQRCode, models.QROccupied
	}
	if payload == "" {
		return nil, ErrNoActiveSlot
	}

	image, err := s.QR.Encode(ctx, payload)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return &QRCodeResult{SlotID: slot.ID, Type: kind, QRCode: image}, nil
}

func (s *DefaultParkingService) History(ctx context.Context, userID string) ([]models.CompletedParking, error) {
	records, err := s.Archive.GetByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return records, nil
}

// EnsureSlots seeds sections x perSection available slots (A-01, A-02, ...) into an
// empty lot. It returns how many slots were created.
func (s *DefaultParkingService) EnsureSlots(ctx context.Context, sections []string, perSection int) (int, error) {
	count, err := s.Slots.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 || perSection <= 0 {
		return 0, nil
	}

	now := s.now()
	slots := make([]models.Slot, 0, len(sections)*perSection)
	for _, section := range sections {
		for i := 1; i <= perSection; i++ {
			slots = append(slots, models.NewSlot(fmt.Sprintf("%s-%02d", section, i), now))
		}
	}
	if err := s.Slots.InsertMany(ctx, slots); err != nil {
		return 0, err
	}
	utils.GetLogger().Info("Seeded parking slots", zap.Int("count", len(slots)))
	return len(slots), nil
}

func encodePayload(p models.QRPayload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR payload: %w", err)
	}
	return string(raw), nil
}
