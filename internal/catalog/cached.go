package catalog

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

type ArenaCache interface {
	GetArenas(ctx context.Context) ([]domain.Arena, bool, error)
	SetArenas(ctx context.Context, arenas []domain.Arena, ttl time.Duration) error
}

// Cached fronts a slower Source with a shared cache. Cache failures fall
// through to the source.
type Cached struct {
	src    Source
	cache  ArenaCache
	ttl    time.Duration
	logger observability.Logger
}

func NewCached(src Source, cache ArenaCache, ttl time.Duration, logger observability.Logger) *Cached {
	return &Cached{src: src, cache: cache, ttl: ttl, logger: logger}
}

func (c *Cached) List(ctx context.Context) ([]domain.Arena, error) {
	list, ok, err := c.cache.GetArenas(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("catalog cache read failed")
	}
	if ok {
		observability.CatalogCache.WithLabelValues("hit").Inc()
		return list, nil
	}
	observability.CatalogCache.WithLabelValues("miss").Inc()

	list, err = c.src.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetArenas(ctx, list, c.ttl); err != nil {
		c.logger.WithError(err).Warn("catalog cache write failed")
	}
	return list, nil
}

func (c *Cached) Get(ctx context.Context, id string) (domain.Arena, error) {
	list, err := c.List(ctx)
	if err != nil {
		return domain.Arena{}, err
	}
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Arena{}, errors.Wrapf(domain.ErrNotFound, "arena %q", id)
}
