package parking

import (
	"context"
	"time"

	recordsRepo "parkwise/database/repository/records"
	slotRepo "parkwise/database/repository/slot"
	"parkwise/models"
	"parkwise/services/qr"
)

// ParkingService is the slot lifecycle engine. User operations act on the caller's
// single active slot; admin operations address a slot by its identifier.
type ParkingService interface {
	// User lifecycle.
	ListSlots(ctx context.Context, userID string) ([]models.Slot, error)
	GetBooking(ctx context.Context, userID string) (*models.Slot, error)
	Reserve(ctx context.Context, userID string, req ReserveRequest) (*ReservationResult, error)
	RequestOccupied(ctx context.Context, userID string) (*models.Slot, error)
	RequestLeaving(ctx context.Context, userID string) (*models.SlotWithDuration, error)
	Pay(ctx context.Context, userID string, req PayRequest) (*models.Slot, error)
	Cancel(ctx context.Context, userID string) error
	CurrentQRCode(ctx context.Context, userID string) (*QRCodeResult, error)
	History(ctx context.Context, userID string) ([]models.CompletedParking, error)

	// Admin-approved transitions.
	ApproveOccupied(ctx context.Context, slotID string) (*ApprovalResult, error)
	RejectOccupied(ctx context.Context, slotID string) (*models.Slot, error)
	ApproveLeaving(ctx context.Context, slotID, adminID string) (*models.CompletedParking, error)

	// Administrative overrides outside the guarded transition table.
	ForceStatus(ctx context.Context, slotID string, status models.SlotStatus) (*models.Slot, error)
	Release(ctx context.Context, slotID string) (*models.Slot, error)

	AllSlots(ctx context.Context) ([]models.Slot, error)
	EnsureSlots(ctx context.Context, sections []string, perSection int) (int, error)
}

// ReminderScheduler schedules a reminder to fire at a reservation's arrival time.
type ReminderScheduler interface {
	ScheduleArrivalReminder(ctx context.Context, reminder models.ArrivalReminder) error
}

// DefaultParkingService is the production implementation.
type DefaultParkingService struct {
	Slots    slotRepo.SlotRepository
	Archive  recordsRepo.CompletedParkingRepository
	QR       qr.Codec
	Payments PaymentGateway
	// Reminders is optional.
	Reminders    ReminderScheduler
	PricePerHour float64
	Currency     string
	Now          func() time.Time
}

// ReserveRequest is the payload of POST /api/parking/reserve.
type ReserveRequest struct {
	SlotID        string `json:"slotId"`
	VehicleNumber string `json:"vehicleNumber"`
	ArrivalTime   string `json:"arrivalTime"`
}

// PayRequest is the optional payload of POST /api/parking/payment. A payment method
// is only needed when a card gateway is configured.
type PayRequest struct {
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
}

// ReservationResult is returned by Reserve.
type ReservationResult struct {
	Booking *models.Slot `json:"booking"`
	QRCode  string       `json:"qrCode"`
}

// ApprovalResult is returned when an admin approves an occupied request.
type ApprovalResult struct {
	Slot   *models.Slot `json:"slot"`
	QRCode string       `json:"qrCode"`
}

// QRCodeResult is the caller's current proof image.
type QRCodeResult struct {
	SlotID string               `json:"slotId"`
	Type   models.QRPayloadType `json:"type"`
	QRCode string               `json:"qrCode"`
}

func (s *DefaultParkingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
