package slotRepo

import (
	"testing"
	"time"

	"parkwise/models"
)

func TestToDocumentTracksActiveBooking(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		status models.SlotStatus
		want   string
	}{
		{models.SlotAvailable, ""},
		{models.SlotReserved, "u1"},
		{models.SlotOccupied, "u1"},
		{models.SlotLeaving, "u1"},
		{models.SlotMaintenance, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			slot := models.NewSlot("A-01", now)
			slot.Status = tt.status
			slot.BookedBy = "u1"

			doc := toDocument(slot)
			if doc.ActiveBooking != tt.want {
				t.Errorf("activeBooking = %q, want %q", doc.ActiveBooking, tt.want)
			}
			if doc.BookedBy != "u1" {
				t.Errorf("bookedBy = %q, want u1", doc.BookedBy)
			}
		})
	}
}
