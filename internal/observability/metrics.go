package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	socketsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zmqkit",
			Subsystem: "sockets",
			Name:      "created_total",
			Help:      "Sockets created through a managed context.",
		},
		[]string{"type"},
	)
	socketsDestroyed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zmqkit",
			Subsystem: "sockets",
			Name:      "destroyed_total",
			Help:      "Sockets destroyed by a managed context, including shutdown sweeps.",
		},
		[]string{"type"},
	)
	socketCloseErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zmqkit",
			Subsystem: "sockets",
			Name:      "close_errors_total",
			Help:      "Socket close failures swallowed during teardown.",
		},
		[]string{"type"},
	)
	socketsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "zmqkit",
			Subsystem: "sockets",
			Name:      "open",
			Help:      "Sockets currently owned by managed contexts.",
		},
	)
	framesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zmqkit",
			Subsystem: "frames",
			Name:      "sent_total",
			Help:      "Frames sent through managed sockets.",
		},
		[]string{"type"},
	)
	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zmqkit",
			Subsystem: "frames",
			Name:      "received_total",
			Help:      "Frames received through managed sockets.",
		},
		[]string{"type"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zmqkit",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zmqkit",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			socketsCreated,
			socketsDestroyed,
			socketCloseErrors,
			socketsOpen,
			framesSent,
			framesReceived,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordSocketCreated(socketType string) {
	RegisterMetrics()
	socketsCreated.WithLabelValues(socketType).Inc()
	socketsOpen.Inc()
}

func RecordSocketDestroyed(socketType string, closeErr error) {
	RegisterMetrics()
	socketsDestroyed.WithLabelValues(socketType).Inc()
	socketsOpen.Dec()
	if closeErr != nil {
		socketCloseErrors.WithLabelValues(socketType).Inc()
	}
}

func RecordFrameSent(socketType string) {
	RegisterMetrics()
	framesSent.WithLabelValues(socketType).Inc()
}

func RecordFrameReceived(socketType string) {
	RegisterMetrics()
	framesReceived.WithLabelValues(socketType).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
