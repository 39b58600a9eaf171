package models

// ParkingDuration is an elapsed parked time broken down for display.
// TotalMinutes always equals Hours*60 + Minutes.
type ParkingDuration struct {
	Hours        int64 `bson:"hours" json:"hours"`
	Minutes      int64 `bson:"minutes" json:"minutes"`
	TotalMinutes int64 `bson:"totalMinutes" json:"totalMinutes"`
}
