package slotRepo

import (
	"context"
	"errors"

	"parkwise/models"
)

var (
	// ErrVersionConflict is returned when a slot changed between read and write.
	ErrVersionConflict = errors.New("slot was modified concurrently")
	// ErrActiveBookingExists is returned when a save would give an account a second active slot.
	ErrActiveBookingExists = errors.New("account already holds an active slot")
)

// SlotRepository defines methods for parking slot data access.
// Getters returning a single slot return (nil, nil) when nothing matches.
type SlotRepository interface {
	// InsertMany stores freshly seeded slots.
	InsertMany(ctx context.Context, slots []models.Slot) error
	// Count returns the number of slots.
	Count(ctx context.Context) (int, error)
	// GetByID retrieves a slot by its human-readable identifier.
	GetByID(ctx context.Context, id string) (*models.Slot, error)
	// GetAll retrieves every slot ordered by identifier.
	GetAll(ctx context.Context) ([]models.Slot, error)
	// GetVisibleTo retrieves available slots plus the caller's own reserved slot.
	GetVisibleTo(ctx context.Context, userID string) ([]models.Slot, error)
	// GetActiveByUser retrieves the slot the user holds in reserved, occupied or leaving state.
	GetActiveByUser(ctx context.Context, userID string) (*models.Slot, error)
	// GetPendingOccupied retrieves slots with an occupied request awaiting approval.
	GetPendingOccupied(ctx context.Context) ([]models.Slot, error)
	// GetByStatus retrieves slots in the given status ordered by identifier.
	GetByStatus(ctx context.Context, status models.SlotStatus) ([]models.Slot, error)
	// CountByStatus returns slot counts keyed by status.
	CountByStatus(ctx context.Context) (map[models.SlotStatus]int, error)
	// Save writes slot if its stored version still equals slot.Version, then bumps
	// slot.Version. It returns ErrVersionConflict or ErrActiveBookingExists on failure.
	Save(ctx context.Context, slot *models.Slot) error
	// SaveWithArchive performs Save and inserts record atomically.
	SaveWithArchive(ctx context.Context, slot *models.Slot, record *models.CompletedParking) error
}
