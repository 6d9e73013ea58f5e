// Package metrics implements Component N: Prometheus collectors for the
// kernel's exec cycles, their outcomes, and the timer scheduler's live
// count, exposed on the same HTTP mux the app already serves healthchecks
// from.
//
// Grounded on piwi3910-openfroyo's dependency on
// github.com/prometheus/client_golang — no repo in the retrieval pack ships
// a block-execution kernel, so the collector shapes here are original, but
// the library and its registration idiom (a dedicated prometheus.Registry,
// promhttp.HandlerFor) are carried over unchanged from that example.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors groups the registered metrics and implements
// registry.MetricsSink so the block registry can report into it without an
// import cycle.
type Collectors struct {
	registry *prometheus.Registry

	execTotal    *prometheus.CounterVec
	execDuration *prometheus.HistogramVec
	timersArmed  prometheus.Gauge
}

// New registers the linkblocks_* collectors on a fresh registry.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	c := &Collectors{
		registry: reg,
		execTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkblocks_exec_total",
			Help: "Total number of block execution cycles, by block and resulting status.",
		}, []string{"block", "status"}),
		execDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "linkblocks_exec_duration_seconds",
			Help:    "Duration of a block's execution cycle.",
			Buckets: prometheus.DefBuckets,
		}, []string{"block"}),
		timersArmed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linkblocks_timers_armed",
			Help: "Number of currently armed per-block execution timers.",
		}),
	}
	reg.MustRegister(c.execTotal, c.execDuration, c.timersArmed)
	return c
}

// ObserveExec implements registry.MetricsSink.
func (c *Collectors) ObserveExec(blockName, status string, d time.Duration) {
	c.execTotal.WithLabelValues(blockName, status).Inc()
	c.execDuration.WithLabelValues(blockName).Observe(d.Seconds())
}

// SetTimersArmed implements registry.MetricsSink.
func (c *Collectors) SetTimersArmed(n int) {
	c.timersArmed.Set(float64(n))
}

// Handler returns the /metrics HTTP handler to mount on the app's mux.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
