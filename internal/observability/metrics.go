package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "supportdesk"

// Metrics groups every collector the service exports.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	Quotes       *prometheus.CounterVec
	RuleWrites   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Quotes calculated by time-of-day bucket and urgency.",
		}, []string{"time_of_day", "urgency"}),
		RuleWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_writes_total",
			Help:      "Rule repository writes by rule kind, operation and result.",
		}, []string{"kind", "op", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.Quotes,
		m.RuleWrites,
	)
	return m
}

// RecordRuleWrite is nil-safe so services can run without metrics in tests.
func (m *Metrics) RecordRuleWrite(kind, op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RuleWrites.WithLabelValues(kind, op, result).Inc()
}

func (m *Metrics) RecordQuote(timeOfDay, urgency string) {
	if m == nil {
		return
	}
	m.Quotes.WithLabelValues(timeOfDay, urgency).Inc()
}

// Handler serves the private registry together with the default gatherer,
// which already carries the Go and process collectors and is where the gorm
// plugin registers its database collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{m.Registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}
