package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aeps-agent.backend/internal/domain/entities"
)

const namespace = "aeps"

// Collector exposes workflow and partner call metrics on its own registry
type Collector struct {
	registry          *prometheus.Registry
	resolutions       *prometheus.CounterVec
	statusFetchFailed prometheus.Counter
	transactions      *prometheus.CounterVec
	ipFallbacks       prometheus.Counter
	partnerLatency    *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_resolutions_total",
			Help:      "Resolved workflow states by state.",
		}, []string{"state"}),
		statusFetchFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_fetch_failures_total",
			Help:      "Onboarding status fetches that failed before resolution.",
		}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transaction submission attempts by operation and outcome.",
		}, []string{"operation", "outcome"}),
		ipFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ip_fallback_total",
			Help:      "Requests sent with the fallback device IP.",
		}),
		partnerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "partner_request_duration_seconds",
			Help:      "Partner API call latency by endpoint and status class.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint", "status"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.resolutions,
		c.statusFetchFailed,
		c.transactions,
		c.ipFallbacks,
		c.partnerLatency,
	)
	return c
}

func (c *Collector) ObserveResolution(state entities.WorkflowState) {
	c.resolutions.WithLabelValues(string(state)).Inc()
}

func (c *Collector) StatusFetchFailed() {
	c.statusFetchFailed.Inc()
}

func (c *Collector) ObserveTransaction(op entities.Operation, outcome entities.AttemptOutcome) {
	c.transactions.WithLabelValues(string(op), string(outcome)).Inc()
}

func (c *Collector) IPFallbackUsed() {
	c.ipFallbacks.Inc()
}

// ObservePartnerCall records one partner round trip. status 0 means no response.
func (c *Collector) ObservePartnerCall(endpoint string, status int, latency time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status/100) + "xx"
	}
	c.partnerLatency.WithLabelValues(endpoint, label).Observe(latency.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
