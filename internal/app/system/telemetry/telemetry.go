// internal/app/system/telemetry/telemetry.go

// Package telemetry exposes Prometheus collectors for dashboard loads and the
// /metrics handler.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "libraryhub"

// Dashboard records dashboard load outcomes. It implements
// dashboard.Observer.
type Dashboard struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	sliceFails   *prometheus.CounterVec
	discarded    prometheus.Counter
}

// NewDashboard registers the dashboard collectors with reg.
func NewDashboard(reg prometheus.Registerer) *Dashboard {
	f := promauto.With(reg)
	return &Dashboard{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "loads_total",
			Help:      "Committed dashboard loads by outcome (complete or partial).",
		}, []string{"outcome"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "load_duration_seconds",
			Help:      "Time from load start until every slice settled.",
			Buckets:   prometheus.DefBuckets,
		}),
		sliceFails: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "slice_failures_total",
			Help:      "Failed dashboard slices by slice name.",
		}, []string{"slice"}),
		discarded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "loads_discarded_total",
			Help:      "Loads that finished after their session closed.",
		}),
	}
}

func (d *Dashboard) ObserveLoad(elapsed time.Duration, failedSlices int) {
	outcome := "complete"
	if failedSlices > 0 {
		outcome = "partial"
	}
	d.loads.WithLabelValues(outcome).Inc()
	d.loadDuration.Observe(elapsed.Seconds())
}

func (d *Dashboard) SliceFailed(slice string) {
	d.sliceFails.WithLabelValues(slice).Inc()
}

func (d *Dashboard) LoadDiscarded() {
	d.discarded.Inc()
}

// Handler serves the gathered metrics in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors alongside anything the caller registers later.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
