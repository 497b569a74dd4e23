package monitoring

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	latencyHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	actionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xbox_actions_total",
			Help: "Dispatched gateway actions by outcome",
		},
		[]string{"action", "status"},
	)
	registerOnce sync.Once
)

// Init registers custom collectors. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestCounter, latencyHistogram, actionCounter)
	})
}

// ObserveRequest records metrics.
func ObserveRequest(path, method, status string, seconds float64) {
	requestCounter.WithLabelValues(path, method, status).Inc()
	latencyHistogram.WithLabelValues(path, method).Observe(seconds)
}

// ObserveAction counts one dispatcher outcome and reports server-side failures.
func ObserveAction(action string, status int, err error) {
	if action == "" {
		action = "none"
	}
	actionCounter.WithLabelValues(action, strconv.Itoa(status)).Inc()
	if status >= 500 && err != nil {
		CaptureError(err, map[string]string{"action": action})
	}
}
