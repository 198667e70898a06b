// Package view renders the landing, listing and detail pages.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/robertarktes/arenalink/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageHome     = "home.html"
	PageListing  = "listing.html"
	PageDetail   = "detail.html"
	PageNotFound = "notfound.html"
)

var pages = []string{PageHome, PageListing, PageDetail, PageNotFound}

var funcs = template.FuncMap{
	"rating": formatRating,
	"when":   func(t time.Time) string { return t.Format("Mon Jan 2, 3:04 PM") },
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	sets map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{sets: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", page)
		}
		r.sets[page] = t
	}
	return r, nil
}

// Render executes page into w. The page is rendered into a buffer first so a
// template error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.sets[page]
	if !ok {
		return errors.Newf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return errors.Wrapf(err, "render %s", page)
	}
	_, err := buf.WriteTo(w)
	return err
}

type HomePage struct {
	Stats    []Stat
	Features []Feature
	Featured []domain.Arena
	Steps    []Step
}

type ListingPage struct {
	Filter      domain.Filter
	Arenas      []domain.Arena
	ResultLabel string
	Sports      []string
	Locations   []string
}

func NewListingPage(f domain.Filter, all []domain.Arena) ListingPage {
	matched := f.Apply(all)
	return ListingPage{
		Filter:      f,
		Arenas:      matched,
		ResultLabel: domain.ResultLabel(len(matched)),
		Sports:      domain.Sports,
		Locations:   domain.Locations,
	}
}

// Empty reports whether the clear-filters affordance should be shown.
func (p ListingPage) Empty() bool { return len(p.Arenas) == 0 }

type DetailPage struct {
	Arena            domain.Arena
	TimeSlots        []string
	Selection        domain.Selection
	Notification     *domain.Notification
	Amenities        []string
	OperatingHours   string
	CancellationNote string
	ReviewCount      int
	// MinDate is the earliest pickable date in DateLayout form.
	MinDate string
	Threads []domain.ThreadRow
}

func NewDetailPage(a domain.Arena, sel domain.Selection, n *domain.Notification, today string) DetailPage {
	return DetailPage{
		Arena:            a,
		TimeSlots:        domain.TimeSlots,
		Selection:        sel,
		Notification:     n,
		Amenities:        domain.Amenities,
		OperatingHours:   domain.OperatingHours,
		CancellationNote: domain.CancellationNote,
		ReviewCount:      reviewCount,
		MinDate:          today,
	}
}

type NotFoundPage struct {
	ID string
}
