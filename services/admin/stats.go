package admin

import (
	"context"

	"parkwise/models"
	"parkwise/services/parking"
	"parkwise/utils"
)

// GetStats aggregates slot, request, user and revenue counters. It never writes.
func (a *DefaultAdminService) GetStats(ctx context.Context) (*models.AdminStats, error) {
	counts, err := a.Slots.CountByStatus(ctx)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	pending, err := a.Slots.GetPendingOccupied(ctx)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	total, blocked, err := a.Users.CountByBlocked(ctx, models.RoleUser)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	revenue, err := a.Archive.Summary(ctx)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	stats := &models.AdminStats{
		Parking: models.ParkingStats{
			AvailableSlots:   counts[models.SlotAvailable],
			ReservedSlots:    counts[models.SlotReserved],
			OccupiedSlots:    counts[models.SlotOccupied],
			LeavingSlots:     counts[models.SlotLeaving],
			MaintenanceSlots: counts[models.SlotMaintenance],
		},
		Requests: models.RequestStats{
			PendingOccupiedRequests: len(pending),
			PendingLeavingRequests:  counts[models.SlotLeaving],
		},
		Users: models.UserStats{
			TotalUsers:   total,
			ActiveUsers:  total - blocked,
			BlockedUsers: blocked,
		},
		Revenue: revenue,
	}
	for _, n := range counts {
		stats.Parking.TotalSlots += n
	}
	return stats, nil
}

// ListRequests returns slots waiting on an admin decision. Leaving requests carry the
// billed duration.
func (a *DefaultAdminService) ListRequests(ctx context.Context, kind models.RequestKind) ([]models.SlotWithDuration, error) {
	var (
		slots []models.Slot
		err   error
	)
	switch kind {
	case models.RequestKindOccupied:
		slots, err = a.Slots.GetPendingOccupied(ctx)
	case models.RequestKindLeaving:
		slots, err = a.Slots.GetByStatus(ctx, models.SlotLeaving)
	default:
		return nil, utils.NewValidationError("type must be occupied or leaving")
	}
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	out := make([]models.SlotWithDuration, 0, len(slots))
	for _, s := range slots {
		entry := models.SlotWithDuration{Slot: s}
		if s.ParkedTime != nil && s.LeavingRequestTime != nil {
			entry.Duration = parking.ComputeDuration(*s.ParkedTime, *s.LeavingRequestTime)
		}
		out = append(out, entry)
	}
	return out, nil
}

// History returns the most recent completed parkings. limit <= 0 returns all.
func (a *DefaultAdminService) History(ctx context.Context, limit int) ([]models.CompletedParking, error) {
	records, err := a.Archive.GetRecent(ctx, limit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return records, nil
}
