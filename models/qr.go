package models

import "time"

// QRPayloadType tags which lifecycle step a QR payload proves.
type QRPayloadType string

const (
	QRReservation QRPayloadType = "reservation"
	QROccupied    QRPayloadType = "occupied"
)

// QRPayload is the JSON document encoded into reservation and occupancy QR codes.
type QRPayload struct {
	SlotID        string        `json:"slotId"`
	UserID        string        `json:"userId"`
	VehicleNumber string        `json:"vehicleNumber"`
	Type          QRPayloadType `json:"type"`
	ArrivalTime   *time.Time    `json:"arrivalTime,omitempty"`
	ParkedTime    *time.Time    `json:"parkedTime,omitempty"`
}

// ScanResult reports whether a scanned QR code proves a currently occupied slot.
type ScanResult struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message,omitempty"`
	Slot    *SlotWithDuration `json:"slot,omitempty"`
}
