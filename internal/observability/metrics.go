package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	connectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echoctl",
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Connections handled, by final disposition.",
		},
		[]string{"server", "disposition"},
	)
	messageBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "echoctl",
			Subsystem: "server",
			Name:      "message_bytes",
			Help:      "Accepted message content size in bytes.",
			Buckets:   prometheus.LinearBuckets(0, 4, 6),
		},
		[]string{"server"},
	)
	connectionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "echoctl",
			Subsystem: "server",
			Name:      "connection_duration_seconds",
			Help:      "Per-connection handling time in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"server", "disposition"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echoctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"server", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "echoctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"server", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			connectionsTotal,
			messageBytes,
			connectionDuration,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordConnection(server, disposition string, contentBytes int, duration time.Duration) {
	RegisterMetrics()
	connectionsTotal.WithLabelValues(server, disposition).Inc()
	messageBytes.WithLabelValues(server).Observe(float64(contentBytes))
	connectionDuration.WithLabelValues(server, disposition).Observe(duration.Seconds())
}

func RecordHTTPRequest(server, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(server, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(server, method, path, statusLabel).Observe(duration.Seconds())
}
