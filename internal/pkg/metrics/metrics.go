// Package metrics collects run statistics of a balance export. The process is a
// batch job, so the registry is pushed to a Pushgateway instead of being scraped.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "balance_exporter"

// Query kinds used as label values.
const (
	KindNative = "native"
	KindToken  = "token"
)

// Collector owns a private registry with the exporter's metrics.
type Collector struct {
	registry      *prometheus.Registry
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	rows          prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// NewCollector creates and registers the exporter metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_queries_total",
			Help:      "Balance queries issued, by network, kind and outcome.",
		}, []string{"network", "kind", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "balance_query_duration_seconds",
			Help:      "Round trip time of balance queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"network", "kind"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_rows",
			Help:      "Wallet rows in the last written report.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that wrote a report.",
		}),
	}
	c.registry.MustRegister(c.queries, c.queryDuration, c.rows, c.lastSuccess)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveQuery records one balance query.
func (c *Collector) ObserveQuery(network string, kind string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.queries.WithLabelValues(network, kind, status).Inc()
	c.queryDuration.WithLabelValues(network, kind).Observe(duration.Seconds())
}

// MarkReportWritten records a completed run.
func (c *Collector) MarkReportWritten(rows int, at time.Time) {
	c.rows.Set(float64(rows))
	c.lastSuccess.Set(float64(at.Unix()))
}

// Push sends every collected metric to the Pushgateway at url under the given job name.
func (c *Collector) Push(url, job string) error {
	if err := push.New(url, job).Gatherer(c.registry).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
