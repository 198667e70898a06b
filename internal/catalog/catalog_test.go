package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertarktes/arenalink/internal/catalog"
	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

func TestStatic_Get(t *testing.T) {
	ctx := context.Background()
	src := catalog.NewStatic()

	a, err := src.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Elite Sports Complex", a.Name)
	assert.Equal(t, 45, a.Price)

	_, err = src.Get(ctx, "99")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStatic_ListIsACopy(t *testing.T) {
	ctx := context.Background()
	src := catalog.NewStatic()

	list, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 6)
	list[0].Name = "changed"

	again, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Elite Sports Complex", again[0].Name)
}

func TestStatic_Availability(t *testing.T) {
	a, err := catalog.NewStatic().Get(context.Background(), "4")
	require.NoError(t, err)
	assert.False(t, a.Available)
}

func TestFeatured(t *testing.T) {
	list, err := catalog.Featured(context.Background(), catalog.NewStatic(), 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Pro Court Center", list[2].Name)
}

type memCache struct {
	arenas []domain.Arena
	sets   int
	err    error
}

func (m *memCache) GetArenas(ctx context.Context) ([]domain.Arena, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	return m.arenas, m.arenas != nil, nil
}

func (m *memCache) SetArenas(ctx context.Context, arenas []domain.Arena, ttl time.Duration) error {
	m.sets++
	m.arenas = arenas
	return m.err
}

type countingSource struct {
	catalog.Source
	calls int
}

func (c *countingSource) List(ctx context.Context) ([]domain.Arena, error) {
	c.calls++
	return c.Source.List(ctx)
}

func TestCached_FillsThenHits(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Source: catalog.NewStatic()}
	cache := &memCache{}
	c := catalog.NewCached(src, cache, time.Minute, observability.NewNopLogger())

	first, err := c.List(ctx)
	require.NoError(t, err)
	second, err := c.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, cache.sets)

	a, err := c.Get(ctx, "6")
	require.NoError(t, err)
	assert.Equal(t, "Victory Field", a.Name)

	_, err = c.Get(ctx, "99")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCached_CacheErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Source: catalog.NewStatic()}
	c := catalog.NewCached(src, &memCache{err: errors.New("redis down")}, time.Minute, observability.NewNopLogger())

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)
	assert.Equal(t, 1, src.calls)
}
