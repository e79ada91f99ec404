// Package metrics records per-run gauges and writes them in the node
// exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reporter holds the gauges common to every tool on a private registry.
type Reporter struct {
	registry *prometheus.Registry
	factory  promauto.Factory
	labels   prometheus.Labels
	start    time.Time

	namespace string
	duration  prometheus.Gauge
	timestamp prometheus.Gauge
}

func newReporter(namespace, tool string) *Reporter {
	registry := prometheus.NewRegistry()
	r := &Reporter{
		registry:  registry,
		factory:   promauto.With(registry),
		labels:    prometheus.Labels{"tool": tool},
		start:     time.Now(),
		namespace: namespace,
	}
	r.duration = r.gauge("last_run_duration_seconds", "Last run duration in seconds")
	r.timestamp = r.gauge("last_run_timestamp_seconds", "Unix time of the last completed run")
	return r
}

func (r *Reporter) gauge(name, help string) prometheus.Gauge {
	return r.factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   r.namespace,
			Name:        name,
			Help:        help,
			ConstLabels: r.labels,
		})
}

// Gatherer exposes the private registry.
func (r *Reporter) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile stamps the run duration and writes all gauges to path.
func (r *Reporter) WriteTextfile(path string) error {
	now := time.Now()
	r.duration.Set(now.Sub(r.start).Seconds())
	r.timestamp.Set(float64(now.Unix()))
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("unable to write metrics to '%s': %s", path, err)
	}
	return nil
}

// AdvisorReporter -
type AdvisorReporter struct {
	*Reporter
	candidates     prometheus.Gauge
	bestImbalance  prometheus.Gauge
	bestEfficiency prometheus.Gauge
}

// NewAdvisorReporter starts timing a cpu-advisor run.
func NewAdvisorReporter(namespace string) *AdvisorReporter {
	r := newReporter(namespace, "cpu-advisor")
	return &AdvisorReporter{
		Reporter:       r,
		candidates:     r.gauge("candidates_evaluated", "Number of CPU counts evaluated"),
		bestImbalance:  r.gauge("best_imbalance_cpus", "Idle CPUs of the best ranked candidate"),
		bestEfficiency: r.gauge("best_efficiency_percent", "Efficiency of the best ranked candidate"),
	}
}

// RecordCandidates -
func (r *AdvisorReporter) RecordCandidates(evaluated, bestImbalance int, bestEfficiency float64) {
	r.candidates.Set(float64(evaluated))
	r.bestImbalance.Set(float64(bestImbalance))
	r.bestEfficiency.Set(bestEfficiency)
}

// ResolverReporter -
type ResolverReporter struct {
	*Reporter
	points prometheus.Gauge
	misses *prometheus.GaugeVec
}

// NewResolverReporter starts timing a grid-resolver run.
func NewResolverReporter(namespace string) *ResolverReporter {
	r := newReporter(namespace, "grid-resolver")
	misses := r.factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "gridlist_misses",
			Help:        "Gridlist coordinates without an exact match in the dataset",
			ConstLabels: r.labels,
		}, []string{"axis"},
	)
	return &ResolverReporter{
		Reporter: r,
		points:   r.gauge("gridlist_points", "Gridlist points resolved"),
		misses:   misses,
	}
}

// RecordGridlist -
func (r *ResolverReporter) RecordGridlist(points, lonMisses, latMisses int) {
	r.points.Set(float64(points))
	r.misses.With(prometheus.Labels{"axis": "longitude"}).Set(float64(lonMisses))
	r.misses.With(prometheus.Labels{"axis": "latitude"}).Set(float64(latMisses))
}
