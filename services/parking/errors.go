package parking

import (
	"errors"

	slotRepo "parkwise/database/repository/slot"
	"parkwise/utils"
)

var (
	ErrSlotNotFound          = utils.NewNotFoundError("Slot not found")
	ErrSlotUnavailable       = utils.NewConflictError("Slot is not available")
	ErrActiveBooking         = utils.NewConflictError("You already have an active reservation")
	ErrConcurrentUpdate      = utils.NewConflictError("Slot was modified concurrently, please retry")
	ErrNoReservation         = utils.NewNotFoundError("No active reservation found")
	ErrNoParking             = utils.NewNotFoundError("No active parking found")
	ErrNoPendingPayment      = utils.NewNotFoundError("No pending payment found")
	ErrNoActiveSlot          = utils.NewNotFoundError("No active booking found")
	ErrBeforeArrival         = utils.NewValidationError("Cannot request occupied status before arrival time")
	ErrParkedTimeMissing     = utils.NewValidationError("Parking time not set")
	ErrNoOccupiedRequest     = utils.NewValidationError("No pending occupied request for this slot")
	ErrNoLeavingRequest      = utils.NewValidationError("No pending leaving request for this slot")
	ErrPaymentIncomplete     = utils.NewValidationError("Payment not completed")
	ErrPaymentFailed         = utils.NewValidationError("Payment failed, please try again")
	ErrPaymentMethodRequired = utils.NewValidationError("paymentMethodId is required")
	ErrAlreadyAvailable      = utils.NewValidationError("Slot is already available")
	ErrInvalidStatus         = utils.NewValidationError("Invalid slot status")
	ErrIncompleteLifecycle   = utils.NewValidationError("Slot is missing lifecycle timestamps; release it instead")
)

// mapSaveError turns repository write failures into client-facing errors.
func mapSaveError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, slotRepo.ErrActiveBookingExists):
		return ErrActiveBooking
	case errors.Is(err, slotRepo.ErrVersionConflict):
		return ErrConcurrentUpdate
	default:
		return utils.NewInternalError(err)
	}
}
