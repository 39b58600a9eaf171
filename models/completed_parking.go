package models

import "time"

// CompletedParking is the immutable archive entry written when an admin approves a
// paid leaving request.
type CompletedParking struct {
	ID                 string          `bson:"id" json:"id"`
	SlotID             string          `bson:"slotId" json:"slotId"`
	VehicleNumber      string          `bson:"vehicleNumber" json:"vehicleNumber"`
	User               string          `bson:"user" json:"user"`
	ReservationTime    time.Time       `bson:"reservationTime" json:"reservationTime"`
	ArrivalTime        time.Time       `bson:"arrivalTime" json:"arrivalTime"`
	ParkedTime         time.Time       `bson:"parkedTime" json:"parkedTime"`
	LeavingRequestTime time.Time       `bson:"leavingRequestTime" json:"leavingRequestTime"`
	CompletedTime      time.Time       `bson:"completedTime" json:"completedTime"`
	Duration           ParkingDuration `bson:"duration" json:"duration"`
	Cost               int64           `bson:"cost" json:"cost"`
	PaymentStatus      PaymentStatus   `bson:"paymentStatus" json:"paymentStatus"`
	PaymentTime        time.Time       `bson:"paymentTime" json:"paymentTime"`
	PaymentReference   string          `bson:"paymentReference,omitempty" json:"paymentReference,omitempty"`
	ApprovedBy         string          `bson:"approvedBy" json:"approvedBy"`
	CreatedAt          time.Time       `bson:"createdAt" json:"createdAt"`
}
