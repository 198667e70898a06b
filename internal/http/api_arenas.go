package http

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

type listArenasResponse struct {
	Arenas      []domain.Arena `json:"arenas"`
	ResultLabel string         `json:"result_label"`
	Filter      domain.Filter  `json:"filter"`
}

func (h *Handlers) ListArenas(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	f := filterFromQuery(r)
	matched := f.Apply(all)
	writeJSON(w, http.StatusOK, listArenasResponse{
		Arenas:      matched,
		ResultLabel: domain.ResultLabel(len(matched)),
		Filter:      f,
	})
}

func (h *Handlers) GetArena(w http.ResponseWriter, r *http.Request) {
	arena, err := h.catalog.Get(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, arena)
}

// TimeSlots lists the start times offered for an existing arena.
func (h *Handlers) TimeSlots(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.Get(r.Context(), urlID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"time_slots": domain.TimeSlots})
}

type confirmRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Confirm is the JSON form of the detail page confirmation. The outcome is
// always reported as a notification, never as an error status.
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.Get(r.Context(), urlID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	now := h.now()
	n := domain.Confirm(domain.ParseSelection(req.Date, req.Time, now.Location()), now)
	observability.BookingConfirmations.WithLabelValues(string(n.Kind)).Inc()
	writeJSON(w, http.StatusOK, map[string]domain.Notification{"notification": n})
}

func (h *Handlers) ListSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			h.writeError(w, r, errors.Wrapf(domain.ErrInvalidInput, "date %q must be YYYY-MM-DD", date))
			return
		}
	}
	slots, err := h.store.ListSlots(r.Context(), urlID(r), date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if slots == nil {
		slots = []domain.SlotRow{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.SlotRow{"slots": slots})
}

func (h *Handlers) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var in domain.SlotInsert
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	in.ArenaID = urlID(r)
	slot, err := h.store.InsertSlot(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}
