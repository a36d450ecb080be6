package payment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/engine"
)

// Confirmer and Canceller are the slices of *engine.Engine the coordinator
// drives; declared as interfaces so tests can substitute a stub engine.
type Confirmer interface {
	ConfirmBooking(ctx context.Context, bookingID uint64, paymentRef string) error
}

type Canceller interface {
	CancelBooking(ctx context.Context, bookingID, userID uint64) (refundNeeded bool, err error)
}

// Coordinator drives a PENDING booking through payment and then into the
// engine's confirm or cancel path, retrying transient gateway failures with
// exponential backoff (spec.md §4.6). The engine's own critical section
// stays short and payment-call-free; all gateway I/O happens here, outside
// any show mutex.
type Coordinator struct {
	Gateway     Gateway
	Confirmer   Confirmer
	Canceller   Canceller
	MaxRetries  int
	BaseBackoff time.Duration
}

// New builds a Coordinator. maxRetries defaults to 3 and baseBackoff to 2s
// when zero, matching spec.md §6's configuration defaults.
func New(gw Gateway, confirmer Confirmer, canceller Canceller, maxRetries int, baseBackoff time.Duration) *Coordinator {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if baseBackoff <= 0 {
		baseBackoff = 2 * time.Second
	}
	return &Coordinator{Gateway: gw, Confirmer: confirmer, Canceller: canceller, MaxRetries: maxRetries, BaseBackoff: baseBackoff}
}

// Drive submits the booking's payment and applies its outcome: SUCCESS
// confirms the booking (compensating with a refund if confirm fails because
// the booking already expired), FAILED cancels it as the owner, and a
// TIMEOUT or transport error retries with exponential backoff up to
// MaxRetries before being treated as FAILED.
func (c *Coordinator) Drive(ctx context.Context, bookingID, userID uint64, amountCents int64) error {
	var lastResult Result
	backoff := c.BaseBackoff

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		result, err := c.Gateway.Submit(ctx, bookingID, amountCents)
		if err == nil && result.Outcome != OutcomeTimeout {
			lastResult = result
			break
		}
		lastResult = result
		if attempt == c.MaxRetries {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}

	switch lastResult.Outcome {
	case OutcomeSuccess:
		if err := c.Confirmer.ConfirmBooking(ctx, bookingID, lastResult.TransactionID); err != nil {
			var engErr *engine.Error
			if errors.As(err, &engErr) && engErr.Kind == engine.Expired {
				if refundErr := c.Gateway.Refund(ctx, bookingID, lastResult.TransactionID, amountCents); refundErr != nil {
					log.Printf("payment: compensating refund for expired booking %d failed: %v", bookingID, refundErr)
				}
				return nil
			}
			return err
		}
		return nil

	default:
		if _, err := c.Canceller.CancelBooking(ctx, bookingID, userID); err != nil {
			log.Printf("payment: cancelling booking %d after payment failure failed: %v", bookingID, err)
			return err
		}
		return nil
	}
}
