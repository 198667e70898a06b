package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

type Idempotency struct {
	client *redis.Client
}

func NewIdempotency(client *redis.Client) *Idempotency {
	return &Idempotency{client: client}
}

type IdempResponse struct {
	Status      int
	ContentType string
	Result      []byte
}

func (i *Idempotency) Get(ctx context.Context, key string) (*IdempResponse, error) {
	val, err := i.client.Get(ctx, "idemp:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get idempotency record")
	}
	var resp IdempResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, errors.Wrap(err, "decode idempotency record")
	}
	return &resp, nil
}

func (i *Idempotency) Set(ctx context.Context, key string, resp IdempResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "encode idempotency record")
	}
	return errors.Wrap(i.client.Set(ctx, "idemp:"+key, data, ttl).Err(), "set idempotency record")
}

func inFlightKey(key string) string {
	return "idemp:inflight:" + key
}

// Reserve marks key as being processed. It reports false when another
// request already holds the marker.
func (i *Idempotency) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := i.client.SetNX(ctx, inFlightKey(key), "1", ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "reserve idempotency key")
	}
	return ok, nil
}

func (i *Idempotency) Release(ctx context.Context, key string) error {
	return errors.Wrap(i.client.Del(ctx, inFlightKey(key)).Err(), "release idempotency key")
}
