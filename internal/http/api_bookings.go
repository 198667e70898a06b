package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/robertarktes/arenalink/internal/observability"
)

type createBookingRequest struct {
	SlotID   string `json:"slot_id"`
	PlayerID string `json:"player_id"`
}

// CreateBooking books a slot for a player. A short redis lock keeps
// concurrent requests for the same slot away from the serializable
// transaction; the transaction itself is what guarantees a single winner.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ctx := r.Context()

	if h.locks != nil && req.SlotID != "" {
		holder := middleware.GetReqID(ctx)
		if holder == "" {
			holder = uuid.NewString()
		}
		ok, err := h.locks.SetSlotLock(ctx, req.SlotID, holder, h.lockTTL)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if !ok {
			writeErrorCode(w, http.StatusConflict, "slot_unavailable", "slot is being booked")
			return
		}
		defer func() {
			if err := h.locks.ReleaseSlotLock(context.WithoutCancel(ctx), req.SlotID, holder); err != nil {
				LoggerFrom(ctx, h.logger).WithError(err).WithField("slot_id", req.SlotID).Warn("release slot lock")
			}
		}()
	}

	booking, err := h.store.BookSlot(ctx, req.SlotID, req.PlayerID, h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	observability.BookingsTotal.WithLabelValues(string(booking.Status)).Inc()
	LoggerFrom(ctx, h.logger).WithFields(map[string]interface{}{
		"booking_id": booking.ID,
		"slot_id":    booking.SlotID,
	}).Info("booking confirmed")
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.store.GetBooking(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.store.CancelBooking(r.Context(), urlID(r), h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	observability.BookingsTotal.WithLabelValues(string(booking.Status)).Inc()
	writeJSON(w, http.StatusOK, booking)
}
