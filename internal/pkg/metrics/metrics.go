package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hulltrace",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hulltrace",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hulltrace",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 7),
	}, []string{"method", "path"})

	// Algorithm metrics
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hulltrace",
		Subsystem: "hull",
		Name:      "runs_total",
		Help:      "Total algorithm runs by outcome (ok, invalid, error)",
	}, []string{"algorithm", "outcome"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hulltrace",
		Subsystem: "hull",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of a single algorithm run",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"algorithm"})

	HullSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hulltrace",
		Subsystem: "hull",
		Name:      "vertices",
		Help:      "Number of vertices in computed hulls",
		Buckets:   prometheus.ExponentialBuckets(2, 2, 10),
	}, []string{"algorithm"})

	StepCount = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hulltrace",
		Subsystem: "hull",
		Name:      "steps",
		Help:      "Number of trace steps recorded per run",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
	}, []string{"algorithm"})

	ChanIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hulltrace",
		Subsystem: "hull",
		Name:      "chan_iterations",
		Help:      "Values of m tried by Chan's Algorithm before the hull closed",
		Buckets:   []float64{1, 2, 3, 4, 5},
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hulltrace",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Run events published to NATS by result",
	}, []string{"result"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hulltrace",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hulltrace",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hulltrace",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// ObserveRun records the outcome of one algorithm run.
func ObserveRun(algorithm, outcome string, d time.Duration, hullSize, steps int) {
	RunsTotal.WithLabelValues(algorithm, outcome).Inc()
	if outcome != "ok" {
		return
	}
	RunDuration.WithLabelValues(algorithm).Observe(d.Seconds())
	HullSize.WithLabelValues(algorithm).Observe(float64(hullSize))
	StepCount.WithLabelValues(algorithm).Observe(float64(steps))
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// The route pattern keeps /v1/hull/:algorithm at one series.
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
