// Package metrics holds the Prometheus collectors of an application
// instance. Each instance owns its own registry so tests and embedded uses
// never collide on the global one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels of an analysis run.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Registry groups the analysis collectors.
type Registry struct {
	registry *prometheus.Registry

	AnalysisRuns     *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge
}

// NewRegistry creates a registry with all collectors initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.AnalysisRuns = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "beamgrid_analysis_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"outcome"},
	)
	r.AnalysisDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "beamgrid_analysis_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "beamgrid_graph_nodes",
			Help: "Number of top level nodes in the loaded graph",
		},
	)
	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "beamgrid_graph_edges",
			Help: "Number of top level edges in the loaded graph",
		},
	)
	return r
}

// RecordAnalysis counts one run and observes its duration.
func (r *Registry) RecordAnalysis(err error, duration time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	r.AnalysisRuns.WithLabelValues(outcome).Inc()
	r.AnalysisDuration.Observe(duration.Seconds())
}

// RecordGraph publishes the size of the loaded graph.
func (r *Registry) RecordGraph(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// Handler serves the collectors in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
