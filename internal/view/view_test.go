package view_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertarktes/arenalink/internal/catalog"
	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/view"
)

func render(t *testing.T, page string, data any) string {
	t.Helper()
	r, err := view.NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, page, data))
	return buf.String()
}

func TestRender_Home(t *testing.T) {
	out := render(t, view.PageHome, view.NewHomePage(catalog.Arenas()[:view.FeaturedCount]))

	assert.Contains(t, out, "500&#43;", "html/template escapes + in text")
	assert.Contains(t, out, "Player Matching")
	assert.Contains(t, out, "Champions Arena")
	assert.NotContains(t, out, "Ultimate Fitness Arena")
	assert.Contains(t, out, "Play &amp; Connect")
}

func TestRender_ListingAll(t *testing.T) {
	page := view.NewListingPage(domain.DefaultFilter(), catalog.Arenas())
	out := render(t, view.PageListing, page)

	assert.Contains(t, out, "6 arenas found")
	assert.Contains(t, out, "Victory Field")
	assert.Contains(t, out, "Unavailable")
	assert.NotContains(t, out, "Clear Filters")
}

func TestRender_ListingEmptyOffersClear(t *testing.T) {
	page := view.NewListingPage(domain.NewFilter("zzz", "", ""), catalog.Arenas())
	require.True(t, page.Empty())

	out := render(t, view.PageListing, page)
	assert.Contains(t, out, "0 arenas found")
	assert.Contains(t, out, "Clear Filters")
	assert.Contains(t, out, `value="zzz"`)
}

func TestRender_ListingKeepsSelectors(t *testing.T) {
	page := view.NewListingPage(domain.NewFilter("", "Tennis", "all"), catalog.Arenas())
	out := render(t, view.PageListing, page)

	assert.Contains(t, out, "1 arena found")
	assert.Contains(t, out, `<option value="Tennis" selected>`)
}

func TestRender_DetailWithNotification(t *testing.T) {
	arena := catalog.Arenas()[0]
	sel := domain.ParseSelection("2026-03-07", "08:00 AM", time.UTC)
	n := domain.Confirm(sel, time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC))

	out := render(t, view.PageDetail, view.NewDetailPage(arena, sel, &n, "2026-03-05"))

	assert.Contains(t, out, "Elite Sports Complex")
	assert.Contains(t, out, "Booking confirmed for 3/7/2026 at 08:00 AM!")
	assert.Contains(t, out, `value="2026-03-07"`)
	assert.Contains(t, out, `value="08:00 AM" checked`)
	assert.Contains(t, out, `min="2026-03-05"`)
	assert.Contains(t, out, "6:00 AM - 11:00 PM")
	assert.Contains(t, out, "(256 reviews)")
}

func TestRender_DetailWithoutNotification(t *testing.T) {
	out := render(t, view.PageDetail, view.NewDetailPage(catalog.Arenas()[1], domain.Selection{}, nil, "2026-03-05"))

	assert.NotContains(t, out, `class="notification`)
	for _, slot := range domain.TimeSlots {
		assert.Contains(t, out, slot)
	}
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "missing.html", nil))
}

func TestRender_DetailThreads(t *testing.T) {
	players := 6
	page := view.NewDetailPage(catalog.Arenas()[0], domain.Selection{}, nil, "2026-03-05")
	page.Threads = []domain.ThreadRow{{
		ID:         "t-1",
		Title:      "Friday pickup",
		Sport:      "Basketball",
		Time:       time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC),
		MaxPlayers: &players,
	}}

	out := render(t, view.PageDetail, page)
	assert.Contains(t, out, "Looking for Players")
	assert.Contains(t, out, "Friday pickup")
	assert.Contains(t, out, "Fri Mar 6, 6:00 PM")
	assert.Contains(t, out, "up to 6 players")
}
