package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenalink_requests_total",
			Help: "Total number of requests",
		},
		[]string{"route", "code", "method"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arenalink_request_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	DBTxDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arenalink_db_tx_seconds",
			Help:    "Duration of DB transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	BookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenalink_bookings_total",
			Help: "Booking state transitions by resulting status",
		},
		[]string{"status"},
	)

	BookingConfirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenalink_booking_confirmations_total",
			Help: "Notifications raised by the detail view confirmation",
		},
		[]string{"kind"},
	)

	OutboxLag = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arenalink_outbox_lag_seconds",
			Help: "Lag of outbox publishing",
		},
	)

	RabbitPublishRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arenalink_rabbit_publish_retries_total",
			Help: "Total rabbit publish retries",
		},
	)

	RateLimitExceeded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arenalink_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)

	CatalogCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenalink_catalog_cache_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDuration,
			DBTxDuration,
			BookingsTotal,
			BookingConfirmations,
			OutboxLag,
			RabbitPublishRetries,
			RateLimitExceeded,
			CatalogCache,
		)
	})
}
