package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	recordsRepo "parkwise/database/repository/records"
	"parkwise/models"

	"github.com/google/uuid"
)

var _ recordsRepo.CompletedParkingRepository = (*ArchiveStore)(nil)

// ArchiveStore is an in-memory CompletedParkingRepository.
type ArchiveStore struct {
	mu      sync.RWMutex
	records []models.CompletedParking
}

func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{}
}

func (a *ArchiveStore) Create(_ context.Context, record *models.CompletedParking) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	for _, existing := range a.records {
		if existing.ID == record.ID {
			return fmt.Errorf("failed to archive parking for slot %s: duplicate id", record.SlotID)
		}
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	a.records = append(a.records, *record)
	return nil
}

func (a *ArchiveStore) sorted(keep func(models.CompletedParking) bool, limit int) []models.CompletedParking {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := []models.CompletedParking{}
	for _, r := range a.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedTime.After(out[j].CompletedTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (a *ArchiveStore) GetByUser(_ context.Context, userID string) ([]models.CompletedParking, error) {
	return a.sorted(func(r models.CompletedParking) bool { return r.User == userID }, 0), nil
}

func (a *ArchiveStore) GetRecent(_ context.Context, limit int) ([]models.CompletedParking, error) {
	return a.sorted(func(models.CompletedParking) bool { return true }, limit), nil
}

func (a *ArchiveStore) Summary(context.Context) (models.RevenueStats, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := models.RevenueStats{CompletedParkings: len(a.records)}
	for _, r := range a.records {
		stats.TotalRevenue += r.Cost
	}
	return stats, nil
}
