package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

type fakeBookings struct {
	mu            sync.Mutex
	completeCalls int
	failures      int
	cutoff        time.Time
	completeErr   error
}

func (f *fakeBookings) CompleteEndedBookings(_ context.Context, _ time.Time) ([]domain.BookingRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	if f.failures > 0 {
		f.failures--
		return nil, errors.Mark(errors.New("restart transaction"), domain.ErrSerializationFailure)
	}
	return []domain.BookingRow{{ID: "b-1", Status: domain.BookingCompleted}}, nil
}

func (f *fakeBookings) CancelStalePending(_ context.Context, cutoff, _ time.Time) ([]domain.BookingRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = cutoff
	return nil, nil
}

func newTestSweeper(store BookingStore) *Sweeper {
	s := NewSweeper(store, 15*time.Minute, observability.NewNopLogger())
	s.backoff = time.Millisecond
	return s
}

func TestSweep_UsesPendingCutoff(t *testing.T) {
	store := &fakeBookings{}
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	require.NoError(t, newTestSweeper(store).Sweep(context.Background(), now))
	assert.Equal(t, now.Add(-15*time.Minute), store.cutoff)
	assert.Equal(t, 1, store.completeCalls)
}

func TestSweep_RetriesSerializationFailures(t *testing.T) {
	store := &fakeBookings{failures: 2}

	require.NoError(t, newTestSweeper(store).Sweep(context.Background(), time.Now()))
	assert.Equal(t, 3, store.completeCalls)
}

func TestSweep_GivesUpAfterRetries(t *testing.T) {
	store := &fakeBookings{failures: 10}

	err := newTestSweeper(store).Sweep(context.Background(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSerializationFailure))
	assert.Equal(t, maxRetries, store.completeCalls)
}

func TestSweep_OtherErrorsAreNotRetried(t *testing.T) {
	store := &fakeBookings{completeErr: errors.New("connection refused")}

	assert.Error(t, newTestSweeper(store).Sweep(context.Background(), time.Now()))
	assert.Equal(t, 1, store.completeCalls)
}
