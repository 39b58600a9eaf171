package admin

import (
	"context"
	"time"

	recordsRepo "parkwise/database/repository/records"
	slotRepo "parkwise/database/repository/slot"
	userRepo "parkwise/database/repository/user"
	"parkwise/models"
	"parkwise/services/qr"
)

// AdminService covers the read side of the admin dashboard, account moderation and
// gate-side QR verification. Slot transitions live in the parking service.
type AdminService interface {
	GetStats(ctx context.Context) (*models.AdminStats, error)
	ListRequests(ctx context.Context, kind models.RequestKind) ([]models.SlotWithDuration, error)

	ListUsers(ctx context.Context, search string) ([]models.User, error)
	SetBlocked(ctx context.Context, userID string, blocked bool) (*models.User, error)

	ScanImage(ctx context.Context, img []byte) (*models.ScanResult, error)
	VerifyPayload(ctx context.Context, payload string) (*models.ScanResult, error)

	History(ctx context.Context, limit int) ([]models.CompletedParking, error)
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	Slots   slotRepo.SlotRepository
	Archive recordsRepo.CompletedParkingRepository
	Users   userRepo.UserRepository
	QR      qr.Codec
	Now     func() time.Time
}

func (a *DefaultAdminService) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
