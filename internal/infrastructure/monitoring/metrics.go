package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/domain/shared"
)

// MetricsCollector handles Prometheus metrics collection for backend calls
// and domain events
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// Gateway metrics
	gatewayRequestsTotal   *prometheus.CounterVec
	gatewayRequestDuration *prometheus.HistogramVec
	rateLimitedTotal       *prometheus.CounterVec

	// Business metrics
	domainEventsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a collector registered on its own registry
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		gatewayRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriplan_gateway_requests_total",
				Help: "Total number of backend API requests",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		gatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nutriplan_gateway_request_duration_seconds",
				Help:    "Backend API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
		rateLimitedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriplan_gateway_rate_limited_total",
				Help: "Requests delayed by the client-side rate limiter",
			},
			[]string{"endpoint"},
		),
		domainEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriplan_domain_events_total",
				Help: "Total number of dispatched domain events",
			},
			[]string{"event"},
		),
	}
}

// Registry returns the registry the collector's metrics live in
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest records one backend call. A zero status means the request
// never got a response.
func (m *MetricsCollector) RecordRequest(endpoint, method string, status int, duration time.Duration) {
	statusCode := "error"
	if status > 0 {
		statusCode = strconv.Itoa(status)
	}
	m.gatewayRequestsTotal.WithLabelValues(endpoint, method, statusCode).Inc()
	m.gatewayRequestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// RecordRateLimited records a request that had to wait for the limiter
func (m *MetricsCollector) RecordRateLimited(endpoint string) {
	m.rateLimitedTotal.WithLabelValues(endpoint).Inc()
}

// EventHandler counts every event passed to it
func (m *MetricsCollector) EventHandler() shared.EventHandler {
	return func(event shared.DomainEvent) error {
		m.domainEventsTotal.WithLabelValues(event.EventName()).Inc()
		return nil
	}
}

// WriteTextfile dumps the registry in the node_exporter textfile format
func (m *MetricsCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		m.logger.Error("Failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		return err
	}
	m.logger.Debug("Metrics written", zap.String("path", path))
	return nil
}
