// Package catalog serves the arena records behind the listing and detail
// views.
package catalog

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/robertarktes/arenalink/internal/domain"
)

type Source interface {
	List(ctx context.Context) ([]domain.Arena, error)
	Get(ctx context.Context, id string) (domain.Arena, error)
}

var arenas = []domain.Arena{
	{ID: "1", Name: "Elite Sports Complex", Location: "Downtown", Sport: "Basketball", Rating: 4.9, Price: 45, Theme: "from-blue-500 to-blue-600", Capacity: 10, Available: true},
	{ID: "2", Name: "Champions Arena", Location: "Westside", Sport: "Soccer", Rating: 4.8, Price: 60, Theme: "from-green-500 to-green-600", Capacity: 22, Available: true},
	{ID: "3", Name: "Pro Court Center", Location: "Eastside", Sport: "Tennis", Rating: 4.7, Price: 35, Theme: "from-orange-500 to-orange-600", Capacity: 4, Available: true},
	{ID: "4", Name: "Ultimate Fitness Arena", Location: "North District", Sport: "Volleyball", Rating: 4.9, Price: 40, Theme: "from-purple-500 to-purple-600", Capacity: 12, Available: false},
	{ID: "5", Name: "Premier Sports Hub", Location: "South End", Sport: "Badminton", Rating: 4.6, Price: 30, Theme: "from-red-500 to-red-600", Capacity: 4, Available: true},
	{ID: "6", Name: "Victory Field", Location: "Downtown", Sport: "Cricket", Rating: 4.8, Price: 70, Theme: "from-indigo-500 to-indigo-600", Capacity: 22, Available: true},
}

// Arenas returns a copy of the fixed arena list.
func Arenas() []domain.Arena {
	out := make([]domain.Arena, len(arenas))
	copy(out, arenas)
	return out
}

// Static is the fixed, in-memory catalog.
type Static struct {
	list []domain.Arena
	byID map[string]domain.Arena
}

func NewStatic() *Static {
	return newIndexed(Arenas())
}

func newIndexed(list []domain.Arena) *Static {
	s := &Static{list: list, byID: make(map[string]domain.Arena, len(list))}
	for _, a := range list {
		s.byID[a.ID] = a
	}
	return s
}

func (s *Static) List(ctx context.Context) ([]domain.Arena, error) {
	out := make([]domain.Arena, len(s.list))
	copy(out, s.list)
	return out, nil
}

func (s *Static) Get(ctx context.Context, id string) (domain.Arena, error) {
	a, ok := s.byID[id]
	if !ok {
		return domain.Arena{}, errors.Wrapf(domain.ErrNotFound, "arena %q", id)
	}
	return a, nil
}

// Featured returns the first n arenas of src, as shown on the landing page.
func Featured(ctx context.Context, src Source, n int) ([]domain.Arena, error) {
	list, err := src.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > n {
		list = list[:n]
	}
	return list, nil
}
