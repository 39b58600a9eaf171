package recordsRepo

import (
	"context"

	"parkwise/models"
)

// CompletedParkingRepository is the append-only archive of finished parking transactions.
type CompletedParkingRepository interface {
	Create(ctx context.Context, record *models.CompletedParking) error
	GetByUser(ctx context.Context, userID string) ([]models.CompletedParking, error)
	// GetRecent returns up to limit records, newest completion first. limit <= 0 means all.
	GetRecent(ctx context.Context, limit int) ([]models.CompletedParking, error)
	// Summary counts archived records and sums their cost.
	Summary(ctx context.Context) (models.RevenueStats, error)
}
