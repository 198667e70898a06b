package idempotency

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/arenalink/internal/adapters/redis"
)

const (
	defaultInFlightTTL = 60 * time.Second
	defaultWait        = 2 * time.Second
	pollInterval       = 25 * time.Millisecond
)

// Store persists replayable responses and the in-flight markers guarding
// them. The redis adapter satisfies it.
type Store interface {
	Get(ctx context.Context, key string) (*redisadapter.IdempResponse, error)
	Set(ctx context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Idempotency struct {
	store       Store
	ttl         time.Duration
	inFlightTTL time.Duration
	wait        time.Duration
}

type Option func(*Idempotency)

// WithInFlight sets how long a reservation outlives a crashed request and
// how long a duplicate waits for the first response before giving up.
func WithInFlight(ttl, wait time.Duration) Option {
	return func(i *Idempotency) {
		i.inFlightTTL = ttl
		i.wait = wait
	}
}

func NewIdempotency(store Store, ttl time.Duration, opts ...Option) *Idempotency {
	i := &Idempotency{store: store, ttl: ttl, inFlightTTL: defaultInFlightTTL, wait: defaultWait}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

type Response struct {
	Status      int
	ContentType string
	Result      []byte
}

// Get returns the stored response for key, or nil when none was recorded.
func (i *Idempotency) Get(ctx context.Context, key string) (*Response, error) {
	stored, err := i.store.Get(ctx, key)
	if err != nil || stored == nil {
		return nil, err
	}
	return &Response{Status: stored.Status, ContentType: stored.ContentType, Result: stored.Result}, nil
}

func (i *Idempotency) Set(ctx context.Context, key string, resp Response) error {
	return i.store.Set(ctx, key, redisadapter.IdempResponse{
		Status:      resp.Status,
		ContentType: resp.ContentType,
		Result:      resp.Result,
	}, i.ttl)
}

// Reserve claims key for the calling request. Only one caller holds a key
// until Release or the in-flight TTL.
func (i *Idempotency) Reserve(ctx context.Context, key string) (bool, error) {
	return i.store.Reserve(ctx, key, i.inFlightTTL)
}

func (i *Idempotency) Release(ctx context.Context, key string) error {
	return i.store.Release(ctx, key)
}

// Await polls for the response of a request that holds the reservation. It
// returns nil when none appears within the wait.
func (i *Idempotency) Await(ctx context.Context, key string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, i.wait)
	defer cancel()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		resp, err := i.Get(ctx, key)
		if err != nil && ctx.Err() != nil {
			return nil, nil
		}
		if err != nil || resp != nil {
			return resp, err
		}
		select {
		case <-ctx.Done():
			return nil, nil
		case <-ticker.C:
		}
	}
}
