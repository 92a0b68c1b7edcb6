// Package metrics expone los colectores Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados registrados por las operaciones de autenticación.
const (
	OutcomeSuccess      = "success"
	OutcomeConflict     = "conflict"
	OutcomeRejected     = "rejected"
	OutcomeStoreFailure = "store_failure"
)

var (
	authOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_auth_operations_total",
		Help: "Total number of authentication operations by operation and outcome",
	}, []string{"operation", "outcome"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "identity_http_request_duration_seconds",
		Help:    "Histogram of HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// RecordAuth cuenta una operación (register, login, resolve) con su resultado.
func RecordAuth(operation, outcome string) {
	authOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveRequest registra la latencia de un request HTTP.
func ObserveRequest(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(latency.Seconds())
}

// Handler sirve el registry por defecto.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
