// Package metrics exports profiler snapshots as prometheus metrics.
// The kernel itself never imports this package — hosts feed snapshots
// in, which keeps the profiler's inert-when-disabled contract intact.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/framekit/framekit/internal/profile"
)

var phaseLabels = []string{"observer", "phase"}

// Collector folds profiler snapshots into a private prometheus
// registry.
type Collector struct {
	registry *prometheus.Registry

	calls  *prometheus.GaugeVec
	errors *prometheus.GaugeVec
	avg    *prometheus.GaugeVec
	min    *prometheus.GaugeVec
	max    *prometheus.GaugeVec
	frame  prometheus.Gauge
}

// NewCollector creates a collector under the given namespace
// ("framekit" when empty).
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "framekit"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.calls = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "observer",
		Name:      "calls_total",
		Help:      "Total callback invocations per observer and phase",
	}, phaseLabels)

	c.errors = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "observer",
		Name:      "errors_total",
		Help:      "Total dispatch faults per observer and phase",
	}, phaseLabels)

	c.avg = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "observer",
		Name:      "duration_avg_seconds",
		Help:      "Rolling-average callback duration per observer and phase",
	}, phaseLabels)

	c.min = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "observer",
		Name:      "duration_min_seconds",
		Help:      "Minimum callback duration in the current window",
	}, phaseLabels)

	c.max = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "observer",
		Name:      "duration_max_seconds",
		Help:      "Maximum callback duration in the current window",
	}, phaseLabels)

	c.frame = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "frame",
		Help:      "Frame counter at the last observed snapshot",
	})

	c.registry.MustRegister(c.calls, c.errors, c.avg, c.min, c.max, c.frame)
	return c
}

// Observe folds one snapshot into the exported metrics.
func (c *Collector) Observe(snap profile.Snapshot) {
	c.frame.Set(float64(snap.Frame))
	for phase, records := range snap.Phases {
		for _, rec := range records {
			labels := prometheus.Labels{"observer": rec.Observer, "phase": string(phase)}
			c.calls.With(labels).Set(float64(rec.Calls))
			c.errors.With(labels).Set(float64(rec.Errors))
			c.avg.With(labels).Set(rec.Avg.Seconds())
			c.min.With(labels).Set(rec.Min.Seconds())
			c.max.With(labels).Set(rec.Max.Seconds())
		}
	}
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
