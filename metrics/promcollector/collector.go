// Package promcollector exports vecdist operational metrics to Prometheus.
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements vecdist.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency  *prometheus.HistogramVec
	loadBytes  prometheus.Counter
	pairs      prometheus.Counter
	operations *prometheus.CounterVec
}

// New creates a Collector and registers its metrics with reg.
// A nil reg means prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of vector set operations",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
		}, []string{"op", "status"}),
		loadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_bytes_total",
			Help:      "Row data bytes decoded by successful loads",
		}),
		pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairwise_distances_total",
			Help:      "Distances computed by successful pairwise runs",
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Vector set operations by outcome",
		}, []string{"op", "status"}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.loadBytes, c.pairs, c.operations} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.operations.WithLabelValues(op, s).Inc()
}

// RecordLoad implements vecdist.MetricsCollector.
func (c *Collector) RecordLoad(bytes int64, duration time.Duration, err error) {
	c.observe("load", duration, err)
	if err == nil {
		c.loadBytes.Add(float64(bytes))
	}
}

// RecordPairwise implements vecdist.MetricsCollector.
func (c *Collector) RecordPairwise(pairs int, duration time.Duration, err error) {
	c.observe("pairwise", duration, err)
	if err == nil {
		c.pairs.Add(float64(pairs))
	}
}
