package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayn0707/showtime-reservations/internal/engine"
	"github.com/vinayn0707/showtime-reservations/internal/payment"
)

type stubGateway struct {
	results []payment.Result
	errs    []error
	calls   int
	refunds int
}

func (g *stubGateway) Submit(ctx context.Context, bookingID uint64, amountCents int64) (payment.Result, error) {
	i := g.calls
	g.calls++
	if i >= len(g.results) {
		i = len(g.results) - 1
	}
	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	return g.results[i], err
}

func (g *stubGateway) Refund(ctx context.Context, bookingID uint64, paymentRef string, amountCents int64) error {
	g.refunds++
	return nil
}

type stubConfirmer struct {
	err        error
	confirmed  bool
	lastRef    string
}

func (s *stubConfirmer) ConfirmBooking(ctx context.Context, bookingID uint64, paymentRef string) error {
	s.lastRef = paymentRef
	if s.err != nil {
		return s.err
	}
	s.confirmed = true
	return nil
}

type stubCanceller struct {
	cancelled bool
}

func (s *stubCanceller) CancelBooking(ctx context.Context, bookingID, userID uint64) (bool, error) {
	s.cancelled = true
	return false, nil
}

func TestCoordinatorConfirmsOnSuccess(t *testing.T) {
	gw := &stubGateway{results: []payment.Result{{Outcome: payment.OutcomeSuccess, TransactionID: "tx_1"}}}
	confirmer := &stubConfirmer{}
	canceller := &stubCanceller{}
	c := payment.New(gw, confirmer, canceller, 3, time.Millisecond)

	err := c.Drive(context.Background(), 1, 7, 200)
	require.NoError(t, err)
	assert.True(t, confirmer.confirmed)
	assert.Equal(t, "tx_1", confirmer.lastRef)
	assert.False(t, canceller.cancelled)
}

func TestCoordinatorCancelsOnFailure(t *testing.T) {
	gw := &stubGateway{results: []payment.Result{{Outcome: payment.OutcomeFailed, Reason: "declined"}}}
	confirmer := &stubConfirmer{}
	canceller := &stubCanceller{}
	c := payment.New(gw, confirmer, canceller, 3, time.Millisecond)

	err := c.Drive(context.Background(), 1, 7, 200)
	require.NoError(t, err)
	assert.False(t, confirmer.confirmed)
	assert.True(t, canceller.cancelled)
}

func TestCoordinatorRetriesTimeoutThenSucceeds(t *testing.T) {
	gw := &stubGateway{results: []payment.Result{
		{Outcome: payment.OutcomeTimeout},
		{Outcome: payment.OutcomeTimeout},
		{Outcome: payment.OutcomeSuccess, TransactionID: "tx_2"},
	}}
	confirmer := &stubConfirmer{}
	canceller := &stubCanceller{}
	c := payment.New(gw, confirmer, canceller, 3, time.Millisecond)

	err := c.Drive(context.Background(), 1, 7, 200)
	require.NoError(t, err)
	assert.Equal(t, 3, gw.calls)
	assert.True(t, confirmer.confirmed)
}

func TestCoordinatorTreatsExhaustedRetriesAsFailure(t *testing.T) {
	gw := &stubGateway{results: []payment.Result{
		{Outcome: payment.OutcomeTimeout},
		{Outcome: payment.OutcomeTimeout},
		{Outcome: payment.OutcomeTimeout},
		{Outcome: payment.OutcomeTimeout},
	}}
	confirmer := &stubConfirmer{}
	canceller := &stubCanceller{}
	c := payment.New(gw, confirmer, canceller, 3, time.Millisecond)

	err := c.Drive(context.Background(), 1, 7, 200)
	require.NoError(t, err)
	assert.True(t, canceller.cancelled)
}

func TestCoordinatorRefundsOnExpiredConfirm(t *testing.T) {
	gw := &stubGateway{results: []payment.Result{{Outcome: payment.OutcomeSuccess, TransactionID: "tx_3"}}}
	confirmer := &stubConfirmer{err: &engine.Error{Kind: engine.Expired}}
	canceller := &stubCanceller{}
	c := payment.New(gw, confirmer, canceller, 3, time.Millisecond)

	err := c.Drive(context.Background(), 1, 7, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, gw.refunds)
}
