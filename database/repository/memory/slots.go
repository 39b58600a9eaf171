// Package memory holds in-process repository implementations. They back the
// STORAGE_DRIVER=memory mode and the service and handler tests, and enforce the same
// version and one-active-slot constraints as the Mongo repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	slotRepo "parkwise/database/repository/slot"
	"parkwise/models"
)

var _ slotRepo.SlotRepository = (*SlotStore)(nil)

// SlotStore is an in-memory SlotRepository.
type SlotStore struct {
	mu      sync.RWMutex
	slots   map[string]models.Slot
	archive *ArchiveStore
}

// NewSlotStore creates an empty store. SaveWithArchive appends to archive.
func NewSlotStore(archive *ArchiveStore) *SlotStore {
	return &SlotStore{slots: make(map[string]models.Slot), archive: archive}
}

func (s *SlotStore) InsertMany(_ context.Context, slots []models.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range slots {
		if _, exists := s.slots[slot.ID]; exists {
			return fmt.Errorf("failed to insert slots: duplicate id %s", slot.ID)
		}
	}
	for _, slot := range slots {
		s.slots[slot.ID] = slot
	}
	return nil
}

func (s *SlotStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots), nil
}

func (s *SlotStore) GetByID(_ context.Context, id string) (*models.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (s *SlotStore) filter(keep func(models.Slot) bool) []models.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Slot{}
	for _, slot := range s.slots {
		if keep(slot) {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *SlotStore) GetAll(context.Context) ([]models.Slot, error) {
	return s.filter(func(models.Slot) bool { return true }), nil
}

func (s *SlotStore) GetVisibleTo(_ context.Context, userID string) ([]models.Slot, error) {
	return s.filter(func(slot models.Slot) bool {
		return slot.Status == models.SlotAvailable ||
			(slot.Status == models.SlotReserved && slot.BookedBy == userID)
	}), nil
}

func (s *SlotStore) GetActiveByUser(_ context.Context, userID string) (*models.Slot, error) {
	found := s.filter(func(slot models.Slot) bool {
		return slot.BookedBy == userID && slot.Status.Active()
	})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (s *SlotStore) GetPendingOccupied(context.Context) ([]models.Slot, error) {
	return s.filter(func(slot models.Slot) bool {
		return slot.OccupiedRequestStatus == models.RequestPending
	}), nil
}

func (s *SlotStore) GetByStatus(_ context.Context, status models.SlotStatus) ([]models.Slot, error) {
	return s.filter(func(slot models.Slot) bool { return slot.Status == status }), nil
}

func (s *SlotStore) CountByStatus(context.Context) (map[models.SlotStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.SlotStatus]int)
	for _, slot := range s.slots {
		counts[slot.Status]++
	}
	return counts, nil
}

// saveLocked applies the compare-and-swap rules. Callers hold s.mu.
func (s *SlotStore) saveLocked(slot *models.Slot) error {
	stored, ok := s.slots[slot.ID]
	if !ok || stored.Version != slot.Version {
		return slotRepo.ErrVersionConflict
	}
	if slot.BookedBy != "" && slot.Status.Active() {
		for id, other := range s.slots {
			if id != slot.ID && other.Status.Active() && other.BookedBy == slot.BookedBy {
				return slotRepo.ErrActiveBookingExists
			}
		}
	}
	next := *slot
	next.Version++
	next.UpdatedAt = time.Now()
	s.slots[slot.ID] = next
	*slot = next
	return nil
}

func (s *SlotStore) Save(_ context.Context, slot *models.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(slot)
}

func (s *SlotStore) SaveWithArchive(ctx context.Context, slot *models.Slot, record *models.CompletedParking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.slots[slot.ID]
	if !ok || stored.Version != slot.Version {
		return slotRepo.ErrVersionConflict
	}
	if err := s.archive.Create(ctx, record); err != nil {
		return err
	}
	return s.saveLocked(slot)
}
