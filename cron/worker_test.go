package cron

import (
	"context"
	"testing"
	"time"

	"parkwise/database/repository/memory"
	"parkwise/models"
	"parkwise/services/tasks"

	"github.com/hibiken/asynq"
)

func TestAwaitingArrival(t *testing.T) {
	p := models.ArrivalReminder{SlotID: "A-01", UserID: "u1"}

	tests := []struct {
		name string
		slot *models.Slot
		want bool
	}{
		{"missing slot", nil, false},
		{"still reserved", &models.Slot{ID: "A-01", Status: models.SlotReserved, BookedBy: "u1"}, true},
		{"already requested", &models.Slot{ID: "A-01", Status: models.SlotReserved, BookedBy: "u1", OccupiedRequestStatus: models.RequestPending}, false},
		{"rebooked by someone else", &models.Slot{ID: "A-01", Status: models.SlotReserved, BookedBy: "u2"}, false},
		{"cancelled", &models.Slot{ID: "A-01", Status: models.SlotAvailable}, false},
	}
	for _, tt := range tests {
		if got := awaitingArrival(tt.slot, p); got != tt.want {
			t.Errorf("%s: awaitingArrival = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHandleArrivalReminder(t *testing.T) {
	slots := memory.NewSlotStore(memory.NewArchiveStore())
	if err := slots.InsertMany(context.Background(), []models.Slot{models.NewSlot("A-01", time.Now())}); err != nil {
		t.Fatalf("InsertMany: %v", err)
	}
	handler := handleArrivalReminder(slots)

	task, _, err := tasks.NewArrivalReminderTask(models.ArrivalReminder{SlotID: "A-01", UserID: "u1", ArrivalTime: time.Now()})
	if err != nil {
		t.Fatalf("NewArrivalReminderTask: %v", err)
	}
	if err := handler(context.Background(), task); err != nil {
		t.Errorf("stale reminder returned %v", err)
	}

	bad := asynq.NewTask(tasks.TypeArrivalReminder, []byte("{"))
	if err := handler(context.Background(), bad); err == nil {
		t.Error("malformed payload accepted")
	}
}
