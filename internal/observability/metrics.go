package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors for the dispatch pipeline and the
// dashboard API.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal        *prometheus.CounterVec
	httpRequestDuration      *prometheus.HistogramVec
	runsTotal                prometheus.Counter
	runDuration              prometheus.Histogram
	ordersProcessedTotal     prometheus.Counter
	ordersSkippedTotal       *prometheus.CounterVec
	notificationsSentTotal   *prometheus.CounterVec
	notificationsFailedTotal *prometheus.CounterVec
	notificationSendDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispatch_notifier",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dispatch_notifier",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		runsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "dispatch_notifier",
				Name:      "runs_total",
				Help:      "Total number of dispatch pipeline runs started.",
			},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "dispatch_notifier",
				Name:      "run_duration_seconds",
				Help:      "Dispatch pipeline run duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		ordersProcessedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "dispatch_notifier",
				Name:      "orders_processed_total",
				Help:      "Total number of orders written to the notification ledger.",
			},
		),
		ordersSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispatch_notifier",
				Name:      "orders_skipped_total",
				Help:      "Total number of orders skipped, grouped by reason.",
			},
			[]string{"reason"},
		),
		notificationsSentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispatch_notifier",
				Name:      "notifications_sent_total",
				Help:      "Total number of notifications sent successfully.",
			},
			[]string{"channel"},
		),
		notificationsFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispatch_notifier",
				Name:      "notifications_failed_total",
				Help:      "Total number of notification send attempts that failed.",
			},
			[]string{"channel", "reason"},
		),
		notificationSendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dispatch_notifier",
				Name:      "notification_send_duration_seconds",
				Help:      "Provider send duration in seconds grouped by channel.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"channel"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.runsTotal,
		m.runDuration,
		m.ordersProcessedTotal,
		m.ordersSkippedTotal,
		m.notificationsSentTotal,
		m.notificationsFailedTotal,
		m.notificationSendDuration,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncRun() {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
}

func (m *Metrics) ObserveRunDuration(duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.runDuration.Observe(seconds)
}

func (m *Metrics) IncOrderProcessed() {
	if m == nil {
		return
	}
	m.ordersProcessedTotal.Inc()
}

func (m *Metrics) IncOrderSkipped(reason string) {
	if m == nil {
		return
	}
	m.ordersSkippedTotal.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *Metrics) IncNotificationSent(channel string) {
	if m == nil {
		return
	}
	m.notificationsSentTotal.WithLabelValues(normalizeLabel(channel)).Inc()
}

func (m *Metrics) IncNotificationFailed(channel string, reason string) {
	if m == nil {
		return
	}
	m.notificationsFailedTotal.WithLabelValues(normalizeLabel(channel), normalizeLabel(reason)).Inc()
}

func (m *Metrics) ObserveNotificationSendDuration(channel string, duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.notificationSendDuration.WithLabelValues(normalizeLabel(channel)).Observe(seconds)
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeLabel(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
