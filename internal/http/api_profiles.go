package http

import (
	"net/http"

	"github.com/robertarktes/arenalink/internal/adapters/mongo"
	"github.com/robertarktes/arenalink/internal/domain"
)

const activityLimit = 50

func (h *Handlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileInsert
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	profile, err := h.store.InsertProfile(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.GetProfile(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handlers) ListProfileBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.store.ListPlayerBookings(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []domain.BookingRow{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.BookingRow{"bookings": bookings})
}

// Activity lists the booking events the audit consumer recorded for a user,
// newest first.
func (h *Handlers) Activity(w http.ResponseWriter, r *http.Request) {
	if h.activity == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "unavailable", "audit log not configured")
		return
	}
	logs, err := h.activity.ForUser(r.Context(), urlID(r), activityLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if logs == nil {
		logs = []mongo.AuditLog{}
	}
	writeJSON(w, http.StatusOK, map[string][]mongo.AuditLog{"activity": logs})
}

type hasRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// HasRole exposes the has_role database function.
func (h *Handlers) HasRole(w http.ResponseWriter, r *http.Request) {
	var req hasRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	role, err := domain.ParseAppRole(req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok, err := h.store.HasRole(r.Context(), req.UserID, role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"result": ok})
}
