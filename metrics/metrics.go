package metrics

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Label keys shared by every yahoo metric.
const (
	LabelEndpoint = "endpoint"
	LabelResult   = "result"
)

// Collector records yahoo query counts and latencies. A nil *Collector is
// valid and records nothing.
type Collector struct {
	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gatherer prometheus.Gatherer
}

// NewCollector registers the yahoo metrics with reg. A nil reg uses a new,
// private registry.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	var gatherer prometheus.Gatherer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yahoo_queries_total",
			Help: "Yahoo Fantasy API queries by endpoint and result.",
		}, []string{LabelEndpoint, LabelResult}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yahoo_query_duration_seconds",
			Help:    "Latency of Yahoo Fantasy API queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{LabelEndpoint}),
		gatherer: gatherer,
	}

	if err := reg.Register(c.queries); err != nil {
		return nil, err
	}
	if err := reg.Register(c.duration); err != nil {
		return nil, err
	}
	return c, nil
}

// Observe records one query against endpoint.
func (c *Collector) Observe(endpoint, result string, duration time.Duration) {
	if c == nil {
		return
	}
	c.queries.WithLabelValues(endpoint, result).Inc()
	c.duration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Handler serves the collected metrics in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Queries exposes the query counter, labelled by endpoint and result.
func (c *Collector) Queries() *prometheus.CounterVec {
	return c.queries
}

// WriteText writes the collected metrics in the prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	if c == nil || c.gatherer == nil {
		return nil
	}
	families, err := c.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("error gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
