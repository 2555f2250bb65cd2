// Package observability wires Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "agentsynergy"

// Metrics holds the API's collectors, all registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal counts requests by method, route and status.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec
	// ChatsTotal counts agent chats by agent type and outcome.
	ChatsTotal *prometheus.CounterVec
	// ChatCostTotal sums estimated chat cost in dollars by agent type.
	ChatCostTotal *prometheus.CounterVec
	// ChatDuration observes responder latency by outcome.
	ChatDuration *prometheus.HistogramVec
}

// NewMetrics registers the API collectors on reg. Passing nil creates a
// fresh registry with the Go and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		ChatsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "agent",
				Name:      "chats_total",
				Help:      "Total agent chats by agent type and status",
			},
			[]string{"agent_type", "status"},
		),
		ChatCostTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "agent",
				Name:      "chat_cost_dollars_total",
				Help:      "Estimated chat cost in dollars by agent type",
			},
			[]string{"agent_type"},
		),
		ChatDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "agent",
				Name:      "chat_duration_seconds",
				Help:      "Responder latency in seconds",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 30, 120, 300},
			},
			[]string{"status"},
		),
	}
}

// ObserveChat records one chat attempt.
func (m *Metrics) ObserveChat(agentType, status string, cost float64, elapsed time.Duration) {
	m.ChatsTotal.WithLabelValues(agentType, status).Inc()
	if cost > 0 {
		m.ChatCostTotal.WithLabelValues(agentType).Add(cost)
	}
	m.ChatDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// Middleware records request counts and latency under the matched route
// template, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
