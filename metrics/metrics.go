// Package metrics exposes the client's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics owns the registry collectors attach to
type Metrics interface {
	Registry() *prometheus.Registry
}
