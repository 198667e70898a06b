package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robertarktes/arenalink/internal/domain"
)

var arenas = []domain.Arena{
	{ID: "1", Name: "Elite Sports Complex", Location: "Downtown", Sport: "Basketball"},
	{ID: "2", Name: "Champions Arena", Location: "Westside", Sport: "Soccer"},
	{ID: "3", Name: "Pro Court Center", Location: "Eastside", Sport: "Tennis"},
	{ID: "6", Name: "Victory Field", Location: "Downtown", Sport: "Cricket"},
}

func ids(as []domain.Arena) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	cases := []struct {
		name   string
		filter domain.Filter
		want   []string
	}{
		{"default keeps everything", domain.DefaultFilter(), []string{"1", "2", "3", "6"}},
		{"name substring", domain.NewFilter("arena", "", ""), []string{"2"}},
		{"case insensitive", domain.NewFilter("eLiTe", "all", "all"), []string{"1"}},
		{"sport", domain.NewFilter("", "Tennis", "all"), []string{"3"}},
		{"location keeps order", domain.NewFilter("", "all", "Downtown"), []string{"1", "6"}},
		{"all three", domain.NewFilter("field", "Cricket", "Downtown"), []string{"6"}},
		{"no match", domain.NewFilter("", "Soccer", "Downtown"), []string{}},
		{"sport is exact", domain.NewFilter("", "tennis", "all"), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(tc.filter.Apply(arenas)))
		})
	}
}

func TestFilter_PartitionsInput(t *testing.T) {
	f := domain.NewFilter("c", "all", "Downtown")
	got := f.Apply(arenas)

	in := map[string]bool{}
	for _, a := range got {
		assert.True(t, f.Matches(a))
		in[a.ID] = true
	}
	for _, a := range arenas {
		if !in[a.ID] {
			assert.False(t, f.Matches(a), "arena %s was excluded but matches", a.ID)
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	f := domain.NewFilter("e", "all", "Downtown")
	once := f.Apply(arenas)
	assert.Equal(t, once, f.Apply(once))
}

func TestFilter_CaseInsensitiveQueriesAgree(t *testing.T) {
	lower := domain.NewFilter("elite", "all", "all").Apply(arenas)
	upper := domain.NewFilter("ELITE", "all", "all").Apply(arenas)
	assert.Equal(t, lower, upper)
}

func TestFilter_ClearRestoresFullList(t *testing.T) {
	f := domain.NewFilter("nothing like this", "Soccer", "Eastside")
	assert.Empty(t, f.Apply(arenas))
	assert.False(t, f.IsDefault())

	f = domain.DefaultFilter()
	assert.Equal(t, domain.Filter{Query: "", Sport: "all", Location: "all"}, f)
	assert.True(t, f.IsDefault())
	assert.Equal(t, arenas, f.Apply(arenas))
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "0 arenas found", domain.ResultLabel(0))
	assert.Equal(t, "1 arena found", domain.ResultLabel(1))
	assert.Equal(t, "6 arenas found", domain.ResultLabel(6))
}
