package http

import (
	"bytes"
	"net/http"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/robertarktes/arenalink/internal/catalog"
	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
	"github.com/robertarktes/arenalink/internal/view"
)

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		LoggerFrom(r.Context(), h.logger).WithError(err).WithField("page", page).Error("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) pageError(w http.ResponseWriter, r *http.Request, err error) {
	LoggerFrom(r.Context(), h.logger).WithError(err).Error("page failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := catalog.Featured(r.Context(), h.catalog, view.FeaturedCount)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageHome, view.NewHomePage(featured))
}

func filterFromQuery(r *http.Request) domain.Filter {
	q := r.URL.Query()
	return domain.NewFilter(q.Get("q"), q.Get("sport"), q.Get("location"))
}

func (h *Handlers) Listing(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.List(r.Context())
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageListing, view.NewListingPage(filterFromQuery(r), all))
}

// Detail opens with today's date picked.
func (h *Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, domain.Today(h.now()), nil)
}

// ConfirmPage validates the picked date and time and re-renders the detail
// page with the resulting notification. Nothing is stored. A form without a
// date field keeps the default of today; an empty one means the date was
// cleared.
func (h *Handlers) ConfirmPage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	now := h.now()
	date := domain.Today(now).DateValue()
	if _, ok := r.PostForm["date"]; ok {
		date = r.PostForm.Get("date")
	}
	sel := domain.ParseSelection(date, r.PostForm.Get("time"), now.Location())
	n := domain.Confirm(sel, now)
	observability.BookingConfirmations.WithLabelValues(string(n.Kind)).Inc()
	h.detail(w, r, sel, &n)
}

// detail looks up the arena and, when a database is configured, its open
// player threads at the same time. A thread lookup failure only hides that
// section.
func (h *Handlers) detail(w http.ResponseWriter, r *http.Request, sel domain.Selection, n *domain.Notification) {
	id := urlID(r)

	var (
		arena   domain.Arena
		threads []domain.ThreadRow
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		arena, err = h.catalog.Get(ctx, id)
		return err
	})
	if h.store != nil {
		g.Go(func() error {
			list, err := h.store.ListArenaThreads(ctx, id)
			if err != nil {
				LoggerFrom(ctx, h.logger).WithError(err).WithField("arena_id", id).Warn("list threads for detail page")
				return nil
			}
			threads = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.render(w, r, http.StatusNotFound, view.PageNotFound, view.NotFoundPage{ID: id})
			return
		}
		h.pageError(w, r, err)
		return
	}

	page := view.NewDetailPage(arena, sel, n, h.now().Format(domain.DateLayout))
	page.Threads = threads
	h.render(w, r, http.StatusOK, view.PageDetail, page)
}
