package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kochabx/apiclient/dispatcher"
)

// DispatchCollector counts exchanges by operation and outcome and records
// their latency. It satisfies dispatcher.Observer.
type DispatchCollector struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ dispatcher.Observer = (*DispatchCollector)(nil)

// NewDispatchCollector registers the dispatch metrics with m
func NewDispatchCollector(m Metrics) (*DispatchCollector, error) {
	c := &DispatchCollector{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "total",
			Help:      "Number of API exchanges by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Latency of API exchanges.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg := m.Registry()
	if err := reg.Register(c.total); err != nil {
		return nil, err
	}
	if err := reg.Register(c.duration); err != nil {
		reg.Unregister(c.total)
		return nil, err
	}
	return c, nil
}

// Observe implements dispatcher.Observer
func (c *DispatchCollector) Observe(op dispatcher.Operation, outcome dispatcher.Outcome, elapsed time.Duration) {
	c.total.WithLabelValues(op.String(), outcome.Name()).Inc()
	c.duration.WithLabelValues(op.String()).Observe(elapsed.Seconds())
}
