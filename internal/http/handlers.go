package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/robertarktes/arenalink/internal/adapters/mongo"
	"github.com/robertarktes/arenalink/internal/catalog"
	"github.com/robertarktes/arenalink/internal/config"
	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
	"github.com/robertarktes/arenalink/internal/view"
)

// Store is the relational backend used by the /v1 booking, slot, thread,
// profile and role routes. *pg.Repository satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	InsertSlot(ctx context.Context, in domain.SlotInsert) (domain.SlotRow, error)
	ListSlots(ctx context.Context, arenaID, date string) ([]domain.SlotRow, error)

	BookSlot(ctx context.Context, slotID, playerID string, now time.Time) (domain.BookingRow, error)
	GetBooking(ctx context.Context, id string) (domain.BookingRow, error)
	CancelBooking(ctx context.Context, id string, now time.Time) (domain.BookingRow, error)

	InsertThread(ctx context.Context, in domain.ThreadInsert) (domain.ThreadRow, error)
	GetThread(ctx context.Context, id string) (domain.ThreadRow, error)
	ListArenaThreads(ctx context.Context, arenaID string) ([]domain.ThreadRow, error)
	InsertInterest(ctx context.Context, in domain.ThreadInterestInsert) (domain.ThreadInterestRow, error)
	SetInterestStatus(ctx context.Context, id string, status domain.InterestStatus) (domain.ThreadInterestRow, error)
	InsertMessage(ctx context.Context, in domain.MessageInsert) (domain.MessageRow, error)
	ListMessages(ctx context.Context, threadID string, limit int) ([]domain.MessageRow, error)

	InsertProfile(ctx context.Context, in domain.ProfileInsert) (domain.ProfileRow, error)
	GetProfile(ctx context.Context, id string) (domain.ProfileRow, error)
	ListPlayerBookings(ctx context.Context, playerID string) ([]domain.BookingRow, error)
	HasRole(ctx context.Context, userID string, role domain.AppRole) (bool, error)
}

// SlotLocker guards a slot while a booking transaction runs.
type SlotLocker interface {
	SetSlotLock(ctx context.Context, slotID, holder string, ttl time.Duration) (bool, error)
	ReleaseSlotLock(ctx context.Context, slotID, holder string) error
}

// ActivityLog lists the audit entries recorded for a user.
type ActivityLog interface {
	ForUser(ctx context.Context, userID string, limit int64) ([]mongo.AuditLog, error)
}

// Deps carries everything the handlers need. Only Catalog and Renderer are
// required; a nil Store turns the backend routes into 503s. Without a
// Config the slot lock TTL is config.DefaultSlotLockTTL.
type Deps struct {
	Config   *config.Config
	Logger   observability.Logger
	Catalog  catalog.Source
	Renderer *view.Renderer
	Store    Store
	Locks    SlotLocker
	Activity ActivityLog
	Now      func() time.Time
}

type Handlers struct {
	lockTTL  time.Duration
	logger   observability.Logger
	catalog  catalog.Source
	renderer *view.Renderer
	store    Store
	locks    SlotLocker
	activity ActivityLog
	now      func() time.Time
}

func NewHandlers(d Deps) *Handlers {
	h := &Handlers{
		logger:   d.Logger,
		catalog:  d.Catalog,
		renderer: d.Renderer,
		store:    d.Store,
		locks:    d.Locks,
		activity: d.Activity,
		now:      d.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.logger == nil {
		h.logger = observability.NewNopLogger()
	}
	h.lockTTL = config.DefaultSlotLockTTL
	if d.Config != nil && d.Config.SlotLockTTL > 0 {
		h.lockTTL = d.Config.SlotLockTTL
	}
	return h
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, status int, code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

// writeError maps domain sentinels onto HTTP statuses. Anything unrecognised
// is logged and reported as a bare 500.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidEnum), errors.Is(err, domain.ErrInvalidInput):
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, domain.ErrSlotUnavailable):
		writeErrorCode(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeErrorCode(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrSerializationFailure):
		writeErrorCode(w, http.StatusConflict, "retry", "conflict, try again")
	case errors.Is(err, domain.ErrConflict):
		writeErrorCode(w, http.StatusConflict, "conflict", err.Error())
	default:
		LoggerFrom(r.Context(), h.logger).WithError(err).Error("request failed")
		writeErrorCode(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(domain.ErrInvalidInput, "decode body: %v", err)
	}
	return nil
}

// requireStore answers 503 when the relational backend is not configured.
func (h *Handlers) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			writeErrorCode(w, http.StatusServiceUnavailable, "unavailable", "database not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readyz checks the catalog and, when configured, the database.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.catalog.List(ctx); err != nil {
		LoggerFrom(ctx, h.logger).WithError(err).Warn("catalog not ready")
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		return
	}
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			LoggerFrom(ctx, h.logger).WithError(err).Warn("database not ready")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func urlID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
