package parking

import (
	"math"
	"time"

	"parkwise/models"
)

// DefaultPricePerHour is the hourly rate used when none is configured.
const DefaultPricePerHour = 50

// CalculateCost bills the parked time from parkedTime to now at ratePerHour, rounded up
// to the next whole currency unit. Negative elapsed time costs nothing.
func CalculateCost(parkedTime, now time.Time, ratePerHour float64) int64 {
	elapsedMs := now.Sub(parkedTime).Milliseconds()
	if elapsedMs <= 0 {
		return 0
	}
	elapsedHours := float64(elapsedMs) / float64(time.Hour/time.Millisecond)
	return int64(math.Ceil(elapsedHours * ratePerHour))
}

// ComputeDuration breaks the parked time from parkedTime to now into hours and minutes.
// All three fields derive from one millisecond delta, so
// TotalMinutes == Hours*60 + Minutes.
func ComputeDuration(parkedTime, now time.Time) models.ParkingDuration {
	elapsedMs := now.Sub(parkedTime).Milliseconds()
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	totalMinutes := elapsedMs / int64(time.Minute/time.Millisecond)
	return models.ParkingDuration{
		Hours:        totalMinutes / 60,
		Minutes:      totalMinutes % 60,
		TotalMinutes: totalMinutes,
	}
}

func (s *DefaultParkingService) rate() float64 {
	if s.PricePerHour <= 0 {
		return DefaultPricePerHour
	}
	return s.PricePerHour
}
