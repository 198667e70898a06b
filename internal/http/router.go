package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/idempotency"
	"github.com/robertarktes/arenalink/internal/observability"
	"github.com/robertarktes/arenalink/internal/rateLimit"
)

// SetupRouter wires pages, the JSON API and the operational endpoints. rl
// and idemp may be nil when redis is not configured.
func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, idemp *idempotency.Idempotency) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(MetricsMiddleware)
	r.Use(TracingMiddleware)
	r.Use(RateLimitMiddleware(rl))

	r.Get("/", h.Home)
	r.Get("/arenas", h.Listing)
	r.Get("/arenas/{id}", h.Detail)
	r.Post("/arenas/{id}/confirm", h.ConfirmPage)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/arenas", h.ListArenas)
		r.Get("/arenas/{id}", h.GetArena)
		r.Get("/arenas/{id}/time-slots", h.TimeSlots)
		r.Post("/arenas/{id}/confirm", h.Confirm)
		r.Get("/profiles/{id}/activity", h.Activity)

		r.Group(func(r chi.Router) {
			r.Use(h.requireStore)

			r.Get("/arenas/{id}/slots", h.ListSlots)
			r.Post("/arenas/{id}/slots", h.CreateSlot)

			r.Get("/arenas/{id}/threads", h.ListThreads)
			r.Post("/arenas/{id}/threads", h.CreateThread)
			r.Post("/threads/{id}/interests", h.CreateInterest)
			r.Post("/interests/{id}/accept", h.DecideInterest(domain.InterestAccepted))
			r.Post("/interests/{id}/reject", h.DecideInterest(domain.InterestRejected))
			r.Get("/threads/{id}/messages", h.ListMessages)
			r.Post("/threads/{id}/messages", h.PostMessage)

			r.Post("/profiles", h.CreateProfile)
			r.Get("/profiles/{id}", h.GetProfile)
			r.Get("/profiles/{id}/bookings", h.ListProfileBookings)
			r.Post("/rpc/has_role", h.HasRole)

			r.Group(func(r chi.Router) {
				r.Use(IdempotencyMiddleware(idemp))
				r.Post("/bookings", h.CreateBooking)
				r.Post("/bookings/{id}/cancel", h.CancelBooking)
			})
			r.Get("/bookings/{id}", h.GetBooking)
		})

		r.Get("/healthz", h.Healthz)
		r.Get("/readyz", h.Readyz)
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
