package domain

import (
	"strconv"
	"strings"
)

// All disables the sport or location predicate.
const All = "all"

type Filter struct {
	Query    string `json:"q"`
	Sport    string `json:"sport"`
	Location string `json:"location"`
}

// DefaultFilter is the state "clear filters" resets to.
func DefaultFilter() Filter {
	return Filter{Query: "", Sport: All, Location: All}
}

// NewFilter treats empty selectors as "all".
func NewFilter(query, sport, location string) Filter {
	f := Filter{Query: query, Sport: sport, Location: location}
	if f.Sport == "" {
		f.Sport = All
	}
	if f.Location == "" {
		f.Location = All
	}
	return f
}

func (f Filter) IsDefault() bool {
	return f == DefaultFilter()
}

func (f Filter) Matches(a Arena) bool {
	if !strings.Contains(strings.ToLower(a.Name), strings.ToLower(f.Query)) {
		return false
	}
	if f.Sport != All && a.Sport != f.Sport {
		return false
	}
	if f.Location != All && a.Location != f.Location {
		return false
	}
	return true
}

// Apply returns the arenas matching every predicate, in input order.
// The input slice is never modified.
func (f Filter) Apply(arenas []Arena) []Arena {
	out := make([]Arena, 0, len(arenas))
	for _, a := range arenas {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// ResultLabel renders the listing count line, e.g. "1 arena found".
func ResultLabel(n int) string {
	noun := "arenas"
	if n == 1 {
		noun = "arena"
	}
	return strconv.Itoa(n) + " " + noun + " found"
}
