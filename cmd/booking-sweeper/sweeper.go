package main

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

const maxRetries = 3

type BookingStore interface {
	CompleteEndedBookings(ctx context.Context, now time.Time) ([]domain.BookingRow, error)
	CancelStalePending(ctx context.Context, cutoff, now time.Time) ([]domain.BookingRow, error)
}

// Sweeper completes bookings whose slot has ended and cancels pending
// bookings nobody confirmed within pendingTTL.
type Sweeper struct {
	store      BookingStore
	pendingTTL time.Duration
	logger     observability.Logger
	backoff    time.Duration
}

func NewSweeper(store BookingStore, pendingTTL time.Duration, logger observability.Logger) *Sweeper {
	return &Sweeper{store: store, pendingTTL: pendingTTL, logger: logger, backoff: time.Second}
}

func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := s.Sweep(ctx, now); err != nil {
				s.logger.WithError(err).Error("sweep failed")
			}
		}
	}
}

// Sweep runs both passes concurrently. Each pass is its own transaction.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		done, err := withRetry(ctx, s.backoff, func() ([]domain.BookingRow, error) {
			return s.store.CompleteEndedBookings(ctx, now)
		})
		s.record(done, "completed")
		return errors.Wrap(err, "complete ended bookings")
	})
	g.Go(func() error {
		cancelled, err := withRetry(ctx, s.backoff, func() ([]domain.BookingRow, error) {
			return s.store.CancelStalePending(ctx, now.Add(-s.pendingTTL), now)
		})
		s.record(cancelled, "cancelled stale")
		return errors.Wrap(err, "cancel stale bookings")
	})
	return g.Wait()
}

func (s *Sweeper) record(rows []domain.BookingRow, what string) {
	if len(rows) == 0 {
		return
	}
	observability.BookingsTotal.WithLabelValues(string(rows[0].Status)).Add(float64(len(rows)))
	s.logger.WithField("count", len(rows)).Info("bookings " + what)
}

// withRetry retries fn on serialization failures with a doubling backoff.
func withRetry(ctx context.Context, backoff time.Duration, fn func() ([]domain.BookingRow, error)) ([]domain.BookingRow, error) {
	var err error
	for i := 0; i < maxRetries; i++ {
		var rows []domain.BookingRow
		rows, err = fn()
		if err == nil {
			return rows, nil
		}
		if !errors.Is(err, domain.ErrSerializationFailure) {
			return nil, err
		}
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff << i):
		}
	}
	return nil, errors.Wrapf(err, "failed after %d retries", maxRetries)
}
