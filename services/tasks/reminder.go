package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parkwise/models"

	"github.com/hibiken/asynq"
)

const TypeArrivalReminder = "reminder:arrival"

// NewArrivalReminderTask builds the task fired at a reservation's arrival time. The
// task ID makes re-enqueueing the same reservation a no-op.
func NewArrivalReminderTask(payload models.ArrivalReminder) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeArrivalReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(payload.ArrivalTime),
		asynq.TaskID(fmt.Sprintf("arrival:%s:%s:%d", payload.SlotID, payload.UserID, payload.ArrivalTime.Unix())),
		asynq.MaxRetry(3),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// ReminderQueue enqueues arrival reminders on the asynq Redis queue.
type ReminderQueue struct {
	Client *asynq.Client
}

func NewReminderQueue(client *asynq.Client) *ReminderQueue {
	return &ReminderQueue{Client: client}
}

func (q *ReminderQueue) ScheduleArrivalReminder(ctx context.Context, reminder models.ArrivalReminder) error {
	task, opts, err := NewArrivalReminderTask(reminder)
	if err != nil {
		return err
	}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("failed to enqueue arrival reminder: %w", err)
	}
	return nil
}
