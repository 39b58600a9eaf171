package cron

import (
	"context"
	"encoding/json"
	"time"

	"parkwise/config"
	slotRepo "parkwise/database/repository/slot"
	"parkwise/models"
	"parkwise/services/tasks"
	"parkwise/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt returns the asynq connection settings for the reminder queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitReminderWorker runs the async worker in background and returns it for shutdown.
func InitReminderWorker(slots slotRepo.SlotRepository) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeArrivalReminder, handleArrivalReminder(slots))

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Warn("Reminder worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Reminder worker gave up; arrival reminders are disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// handleArrivalReminder nudges a user whose reservation reached its arrival time without
// an occupied request. Stale reminders for finished or cancelled bookings are dropped.
func handleArrivalReminder(slots slotRepo.SlotRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ArrivalReminder
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid arrival reminder payload", zap.Error(err))
			return asynq.SkipRetry
		}

		slot, err := slots.GetByID(ctx, p.SlotID)
		if err != nil {
			return err
		}
		if !awaitingArrival(slot, p) {
			logger.Debug("Dropping stale arrival reminder", zap.String("slotId", p.SlotID), zap.String("userId", p.UserID))
			return nil
		}

		logger.Info("Arrival reminder: request occupied status once parked",
			zap.String("slotId", p.SlotID),
			zap.String("userId", p.UserID),
			zap.String("vehicleNumber", p.VehicleNumber),
			zap.Time("arrivalTime", p.ArrivalTime))
		return nil
	}
}

func awaitingArrival(slot *models.Slot, p models.ArrivalReminder) bool {
	return slot != nil &&
		slot.Status == models.SlotReserved &&
		slot.BookedBy == p.UserID &&
		slot.OccupiedRequestStatus == ""
}
