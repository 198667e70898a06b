package http

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/robertarktes/arenalink/internal/domain"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

func (h *Handlers) ListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.store.ListArenaThreads(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if threads == nil {
		threads = []domain.ThreadRow{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.ThreadRow{"threads": threads})
}

func (h *Handlers) CreateThread(w http.ResponseWriter, r *http.Request) {
	var in domain.ThreadInsert
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	arenaID := urlID(r)
	in.ArenaID = &arenaID
	thread, err := h.store.InsertThread(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

type interestRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handlers) CreateInterest(w http.ResponseWriter, r *http.Request) {
	var req interestRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	threadID := urlID(r)
	if _, err := h.store.GetThread(r.Context(), threadID); err != nil {
		h.writeError(w, r, err)
		return
	}
	interest, err := h.store.InsertInterest(r.Context(), domain.ThreadInterestInsert{ThreadID: threadID, UserID: req.UserID})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, interest)
}

// DecideInterest moves a pending interest to status.
func (h *Handlers) DecideInterest(status domain.InterestStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		interest, err := h.store.SetInterestStatus(r.Context(), urlID(r), status)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, interest)
	}
}

func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := defaultMessageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.writeError(w, r, errors.Wrapf(domain.ErrInvalidInput, "limit %q", v))
			return
		}
		limit = min(n, maxMessageLimit)
	}
	messages, err := h.store.ListMessages(r.Context(), urlID(r), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if messages == nil {
		messages = []domain.MessageRow{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.MessageRow{"messages": messages})
}

func (h *Handlers) PostMessage(w http.ResponseWriter, r *http.Request) {
	var in domain.MessageInsert
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	in.ThreadID = urlID(r)
	if _, err := h.store.GetThread(r.Context(), in.ThreadID); err != nil {
		h.writeError(w, r, err)
		return
	}
	msg, err := h.store.InsertMessage(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
