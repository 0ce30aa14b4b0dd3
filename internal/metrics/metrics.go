// Package metrics holds the prometheus collectors of the gateway and the /metrics handler.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "gatehouse"

	// Path is where the metrics are exposed.
	Path = "/metrics"
)

// Outcome labels.
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultDuplicate = "duplicate"
	ResultInvalid   = "invalid"
	ResultError     = "error"
)

//nolint:gochecknoglobals
var (
	// Logins counts login attempts by result.
	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Number of login attempts, differentiated by result.",
		},
		[]string{"result"},
	)

	// Registrations counts registration attempts by result.
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Number of registration attempts, differentiated by result.",
		},
		[]string{"result"},
	)

	// HashDuration observes password hash and verify durations.
	HashDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "password_hash_duration_seconds",
			Help:      "Time spent hashing or verifying passwords.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), //nolint:mnd
		},
		[]string{"algorithm", "op"},
	)

	// LogStatements counts written log events by level.
	LogStatements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_statements_total",
			Help:      "Number of log statements, differentiated by log level.",
		},
		[]string{"level"},
	)
)

// Handler serves the default prometheus registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
