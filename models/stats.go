package models

// ParkingStats counts slots per status.
type ParkingStats struct {
	TotalSlots       int `json:"totalSlots"`
	AvailableSlots   int `json:"availableSlots"`
	ReservedSlots    int `json:"reservedSlots"`
	OccupiedSlots    int `json:"occupiedSlots"`
	LeavingSlots     int `json:"leavingSlots"`
	MaintenanceSlots int `json:"maintenanceSlots"`
}

// RequestStats counts requests waiting on an admin.
type RequestStats struct {
	PendingOccupiedRequests int `json:"pendingOccupiedRequests"`
	PendingLeavingRequests  int `json:"pendingLeavingRequests"`
}

// UserStats counts accounts of role user by blocked flag.
type UserStats struct {
	TotalUsers   int `json:"totalUsers"`
	ActiveUsers  int `json:"activeUsers"`
	BlockedUsers int `json:"blockedUsers"`
}

// RevenueStats summarises the completed-parking archive.
type RevenueStats struct {
	CompletedParkings int   `json:"completedParkings"`
	TotalRevenue      int64 `json:"totalRevenue"`
}

// AdminStats is the dashboard aggregate returned by GET /api/admin/stats.
type AdminStats struct {
	Parking  ParkingStats `json:"parking"`
	Requests RequestStats `json:"requests"`
	Users    UserStats    `json:"users"`
	Revenue  RevenueStats `json:"revenue"`
}

// RequestKind selects which admin request queue to list.
type RequestKind string

const (
	RequestKindOccupied RequestKind = "occupied"
	RequestKindLeaving  RequestKind = "leaving"
)
