package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
)

// StripeGateway drives payments through Stripe PaymentIntents, grounded on
// Evently's internal/order/stripe.go CreatePaymentIntent flow: one
// PaymentIntent per booking, tagged with the booking id in metadata and
// sent with the booking id as its idempotency key, so a retried submit for
// the same booking is idempotent at the gateway.
type StripeGateway struct {
	Currency string
}

// NewStripeGateway configures the package-level Stripe client with secretKey
// and returns a gateway using currency for all PaymentIntents.
func NewStripeGateway(secretKey, currency string) *StripeGateway {
	stripe.Key = secretKey
	if currency == "" {
		currency = "usd"
	}
	return &StripeGateway{Currency: currency}
}

func (g *StripeGateway) Submit(ctx context.Context, bookingID uint64, amountCents int64) (Result, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(g.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", strconv.FormatUint(bookingID, 10))
	params.SetIdempotencyKey(strconv.FormatUint(bookingID, 10))
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return Result{}, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return Result{Outcome: OutcomeSuccess, TransactionID: pi.ID}, nil
	case stripe.PaymentIntentStatusProcessing:
		return Result{Outcome: OutcomeTimeout, TransactionID: pi.ID, Reason: "payment still processing"}, nil
	default:
		return Result{Outcome: OutcomeFailed, TransactionID: pi.ID, Reason: string(pi.Status)}, nil
	}
}

func (g *StripeGateway) Refund(ctx context.Context, _ uint64, paymentRef string, amountCents int64) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentRef),
		Amount:        stripe.Int64(amountCents),
	}
	params.Context = ctx
	_, err := refund.New(params)
	if err != nil {
		return fmt.Errorf("stripe: refund: %w", err)
	}
	return nil
}
