package parking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// ErrMissingPaymentMethod is returned by gateways that cannot charge without a
// client-supplied payment method.
var ErrMissingPaymentMethod = errors.New("payment method required")

// PaymentRequest describes one parking charge in whole currency units.
type PaymentRequest struct {
	SlotID          string
	UserID          string
	Amount          int64
	Currency        string
	PaymentMethodID string
}

// PaymentGateway charges a parking fee and returns the provider's reference.
type PaymentGateway interface {
	Charge(ctx context.Context, req PaymentRequest) (string, error)
}

// SimulatedGateway accepts every charge. It is used when no card processor is configured.
type SimulatedGateway struct{}

func (SimulatedGateway) Charge(_ context.Context, _ PaymentRequest) (string, error) {
	return "sim_" + uuid.New().String(), nil
}

// StripeGateway confirms a PaymentIntent server-side. stripe.Key must be set.
type StripeGateway struct{}

func (StripeGateway) Charge(ctx context.Context, req PaymentRequest) (string, error) {
	if req.PaymentMethodID == "" {
		return "", ErrMissingPaymentMethod
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount * 100),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("slotId", req.SlotID)
	params.AddMetadata("userId", req.UserID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("stripe payment intent %s ended in status %s", pi.ID, pi.Status)
	}
	return pi.ID, nil
}
