package models

import "time"

// SlotStatus is the lifecycle state of a parking slot.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotReserved    SlotStatus = "reserved"
	SlotOccupied    SlotStatus = "occupied"
	SlotLeaving     SlotStatus = "leaving"
	SlotMaintenance SlotStatus = "maintenance"
)

// AllSlotStatuses lists every status in display order.
var AllSlotStatuses = []SlotStatus{SlotAvailable, SlotReserved, SlotOccupied, SlotLeaving, SlotMaintenance}

// Valid reports whether s is a known slot status.
func (s SlotStatus) Valid() bool {
	for _, known := range AllSlotStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Active reports whether a slot in this status belongs to an ongoing booking.
func (s SlotStatus) Active() bool {
	return s == SlotReserved || s == SlotOccupied || s == SlotLeaving
}

// RequestStatus is an admin-controlled gate on occupancy and leaving requests.
// The empty value means no request is open.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// PaymentStatus tracks billing for a slot in the leaving state.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Slot is one physical parking space. Optional lifecycle fields are omitted from the
// stored document while unset, so a reset slot carries no trace of its last booking.
type Slot struct {
	ID                    string        `bson:"id" json:"id"`
	Status                SlotStatus    `bson:"status" json:"status"`
	VehicleNumber         string        `bson:"vehicleNumber,omitempty" json:"vehicleNumber,omitempty"`
	ReservationTime       *time.Time    `bson:"reservationTime,omitempty" json:"reservationTime,omitempty"`
	ArrivalTime           *time.Time    `bson:"arrivalTime,omitempty" json:"arrivalTime,omitempty"`
	ParkedTime            *time.Time    `bson:"parkedTime,omitempty" json:"parkedTime,omitempty"`
	LeavingRequestTime    *time.Time    `bson:"leavingRequestTime,omitempty" json:"leavingRequestTime,omitempty"`
	CompletedTime         *time.Time    `bson:"completedTime,omitempty" json:"completedTime,omitempty"`
	BookedBy              string        `bson:"bookedBy,omitempty" json:"bookedBy,omitempty"`
	QRCode                string        `bson:"qrCode" json:"qrCode"`
	ReservationQRCode     string        `bson:"reservationQrCode,omitempty" json:"reservationQrCode,omitempty"`
	OccupiedQRCode        string        `bson:"occupiedQrCode,omitempty" json:"occupiedQrCode,omitempty"`
	OccupiedRequestStatus RequestStatus `bson:"occupiedRequestStatus,omitempty" json:"occupiedRequestStatus,omitempty"`
	LeavingRequestStatus  RequestStatus `bson:"leavingRequestStatus,omitempty" json:"leavingRequestStatus,omitempty"`
	Cost                  int64         `bson:"cost" json:"cost"`
	PaymentStatus         PaymentStatus `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	PaymentTime           *time.Time    `bson:"paymentTime,omitempty" json:"paymentTime,omitempty"`
	PaymentReference      string        `bson:"paymentReference,omitempty" json:"paymentReference,omitempty"`
	Version               int           `bson:"version" json:"-"`
	CreatedAt             time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// NewSlot builds an available slot with its static scan-to-reserve payload.
func NewSlot(id string, now time.Time) Slot {
	return Slot{
		ID:        id,
		Status:    SlotAvailable,
		QRCode:    StaticSlotPayload(id),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StaticSlotPayload is the permanent QR payload printed on a physical slot.
func StaticSlotPayload(slotID string) string {
	return "parking_slot:" + slotID
}

// Reset returns the slot to available and clears every lifecycle field.
// Identity, the static QR payload and bookkeeping fields survive.
func (s *Slot) Reset() {
	*s = Slot{
		ID:        s.ID,
		Status:    SlotAvailable,
		QRCode:    s.QRCode,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// IsClear reports whether no lifecycle field is set.
func (s Slot) IsClear() bool {
	return s.VehicleNumber == "" &&
		s.BookedBy == "" &&
		s.ReservationTime == nil &&
		s.ArrivalTime == nil &&
		s.ParkedTime == nil &&
		s.LeavingRequestTime == nil &&
		s.CompletedTime == nil &&
		s.ReservationQRCode == "" &&
		s.OccupiedQRCode == "" &&
		s.OccupiedRequestStatus == "" &&
		s.LeavingRequestStatus == "" &&
		s.Cost == 0 &&
		s.PaymentStatus == "" &&
		s.PaymentTime == nil &&
		s.PaymentReference == ""
}

// SlotWithDuration is a slot annotated with its elapsed parked duration.
type SlotWithDuration struct {
	Slot
	Duration ParkingDuration `json:"duration"`
}
