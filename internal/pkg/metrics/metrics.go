// Package metrics holds the Prometheus collectors of the storefront.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend requests issued by the fetch gateway.",
		},
		[]string{"resource", "outcome"},
	)

	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"resource"},
	)

	staleResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "stale_responses_total",
			Help:      "Fetch results dropped because a newer request was issued.",
		},
		[]string{"resource"},
	)

	cartLines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "lines",
			Help:      "Number of distinct items in the cart.",
		},
	)
)

func init() {
	Registry.MustRegister(gatewayRequests, gatewayDuration, staleResponses, cartLines)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveFetch records one gateway request.
func ObserveFetch(resource string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	gatewayRequests.WithLabelValues(resource, outcome).Inc()
	gatewayDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// RecordStaleResponse counts a dropped out-of-order fetch result.
func RecordStaleResponse(resource string) {
	staleResponses.WithLabelValues(resource).Inc()
}

// SetCartLines publishes the number of distinct items in the cart.
func SetCartLines(n int) {
	cartLines.Set(float64(n))
}
