package models

import "time"

// ArrivalReminder is the payload of the task fired at a reservation's arrival time.
type ArrivalReminder struct {
	SlotID        string    `json:"slotId"`
	UserID        string    `json:"userId"`
	VehicleNumber string    `json:"vehicleNumber"`
	ArrivalTime   time.Time `json:"arrivalTime"`
}
