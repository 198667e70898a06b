package http

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"github.com/robertarktes/arenalink/internal/idempotency"
	"github.com/robertarktes/arenalink/internal/observability"
	"github.com/robertarktes/arenalink/internal/rateLimit"
)

type ctxKey int

const loggerKey ctxKey = iota

var nopLogger = observability.NewNopLogger()

// LoggerFrom returns the request-scoped logger, or fallback outside a request.
func LoggerFrom(ctx context.Context, fallback observability.Logger) observability.Logger {
	if l, ok := ctx.Value(loggerKey).(observability.Logger); ok {
		return l
	}
	return fallback
}

func RequestIDMiddleware(next http.Handler) http.Handler {
	return middleware.RequestID(next)
}

func LoggerMiddleware(logger observability.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := logger.WithField("request_id", middleware.GetReqID(r.Context()))
			ctx := context.WithValue(r.Context(), loggerKey, entry)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			entry.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("request handled")
		})
	}
}

// MetricsMiddleware records request counts and latency by route pattern, so
// /arenas/1 and /arenas/2 share one series.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.RequestsTotal.WithLabelValues(route, strconv.Itoa(status), r.Method).Inc()
		observability.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key and records the response of a first attempt. Requests
// without a key are rejected. A duplicate that arrives while the first
// attempt is still running waits briefly for its response and otherwise
// gets 409 request_in_progress.
func IdempotencyMiddleware(idemp *idempotency.Idempotency) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if idemp == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				writeErrorCode(w, http.StatusBadRequest, "invalid_input", "missing Idempotency-Key")
				return
			}
			if len(key) < 16 {
				writeErrorCode(w, http.StatusBadRequest, "invalid_input", "invalid Idempotency-Key")
				return
			}
			scoped := r.Method + " " + r.URL.Path + " " + key

			existing, err := idemp.Get(r.Context(), scoped)
			if err != nil {
				LoggerFrom(r.Context(), nopLogger).WithError(err).Warn("idempotency lookup failed")
			}
			if existing != nil {
				writeReplay(w, existing)
				return
			}

			reserved, err := idemp.Reserve(r.Context(), scoped)
			if err != nil {
				LoggerFrom(r.Context(), nopLogger).WithError(err).Warn("idempotency reservation failed")
			} else if !reserved {
				existing, err := idemp.Await(r.Context(), scoped)
				if err != nil {
					LoggerFrom(r.Context(), nopLogger).WithError(err).Warn("idempotency lookup failed")
				}
				if existing != nil {
					writeReplay(w, existing)
					return
				}
				writeErrorCode(w, http.StatusConflict, "request_in_progress", "a request with this Idempotency-Key is still being processed")
				return
			}

			var body bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			bg := context.WithoutCancel(r.Context())
			// 5xx responses are not stored so the client can retry.
			if status := ww.Status(); status != 0 && status < http.StatusInternalServerError {
				resp := idempotency.Response{Status: status, ContentType: ww.Header().Get("Content-Type"), Result: body.Bytes()}
				if err := idemp.Set(bg, scoped, resp); err != nil {
					LoggerFrom(r.Context(), nopLogger).WithError(err).Warn("idempotency store failed")
				}
			}
			if reserved {
				if err := idemp.Release(bg, scoped); err != nil {
					LoggerFrom(r.Context(), nopLogger).WithError(err).Warn("idempotency release failed")
				}
			}
		})
	}
}

func writeReplay(w http.ResponseWriter, resp *idempotency.Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set("Idempotent-Replay", "true")
	w.WriteHeader(resp.Status)
	w.Write(resp.Result)
}

// RateLimitMiddleware limits requests per client address. Limiter failures
// let the request through.
func RateLimitMiddleware(rl *rateLimit.RateLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}
			ok, err := rl.Allow(r.Context(), "ip:"+ip)
			if err != nil {
				LoggerFrom(r.Context(), nopLogger).WithError(err).Warn("rate limiter unavailable")
				ok = true
			}
			if !ok {
				w.Header().Set("Retry-After", "60")
				writeErrorCode(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		tracer := otel.Tracer("http")
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path)
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.url", r.URL.String()),
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", ww.Status()))
		if ww.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.Status()))
		}
	})
}
