package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/robertarktes/arenalink/internal/domain"
)

const arenasKey = "catalog:arenas"

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func slotLockKey(slotID string) string {
	return "slotlock:" + slotID
}

// SetSlotLock claims a short-lived lock on a slot for holder. It reports
// false when someone else holds it.
func (c *Cache) SetSlotLock(ctx context.Context, slotID, holder string, ttl time.Duration) (bool, error) {
	res := c.client.SetNX(ctx, slotLockKey(slotID), holder, ttl)
	return res.Val(), errors.Wrap(res.Err(), "set slot lock")
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// ReleaseSlotLock drops the lock only if holder still owns it.
func (c *Cache) ReleaseSlotLock(ctx context.Context, slotID, holder string) error {
	err := releaseScript.Run(ctx, c.client, []string{slotLockKey(slotID)}, holder).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return errors.Wrap(err, "release slot lock")
}

func (c *Cache) GetArenas(ctx context.Context) ([]domain.Arena, bool, error) {
	val, err := c.client.Get(ctx, arenasKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "get cached arenas")
	}
	var arenas []domain.Arena
	if err := json.Unmarshal(val, &arenas); err != nil {
		return nil, false, errors.Wrap(err, "decode cached arenas")
	}
	return arenas, true, nil
}

func (c *Cache) SetArenas(ctx context.Context, arenas []domain.Arena, ttl time.Duration) error {
	data, err := json.Marshal(arenas)
	if err != nil {
		return errors.Wrap(err, "encode arenas")
	}
	return errors.Wrap(c.client.Set(ctx, arenasKey, data, ttl).Err(), "cache arenas")
}
