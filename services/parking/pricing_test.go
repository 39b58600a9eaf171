package parking

import (
	"testing"
	"time"
)

func TestCalculateCost(t *testing.T) {
	parked := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		rate    float64
		want    int64
	}{
		{"zero elapsed", 0, 50, 0},
		{"clock skew", -time.Minute, 50, 0},
		{"one millisecond rounds up", time.Millisecond, 50, 1},
		{"one minute", time.Minute, 50, 1},
		{"exactly one hour", time.Hour, 50, 50},
		{"sixty one minutes", 61 * time.Minute, 50, 51},
		{"two hours", 2 * time.Hour, 50, 100},
		{"fractional rate", 90 * time.Minute, 15.5, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCost(parked, parked.Add(tt.elapsed), tt.rate)
			if got != tt.want {
				t.Errorf("CalculateCost(%v @ %v) = %d, want %d", tt.elapsed, tt.rate, got, tt.want)
			}
		})
	}
}

func TestComputeDuration(t *testing.T) {
	parked := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		elapsed                   time.Duration
		hours, minutes, totalMins int64
	}{
		{0, 0, 0, 0},
		{59*time.Second + 999*time.Millisecond, 0, 0, 0},
		{61 * time.Minute, 1, 1, 61},
		{2 * time.Hour, 2, 0, 120},
		{25*time.Hour + 30*time.Minute + 20*time.Second, 25, 30, 1530},
		{-time.Hour, 0, 0, 0},
	}

	for _, tt := range tests {
		got := ComputeDuration(parked, parked.Add(tt.elapsed))
		if got.Hours != tt.hours || got.Minutes != tt.minutes || got.TotalMinutes != tt.totalMins {
			t.Errorf("ComputeDuration(%v) = %+v, want %dh %dm (%d)", tt.elapsed, got, tt.hours, tt.minutes, tt.totalMins)
		}
		if got.TotalMinutes != got.Hours*60+got.Minutes {
			t.Errorf("ComputeDuration(%v) is inconsistent: %+v", tt.elapsed, got)
		}
	}
}
