package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for a label run.
type Metrics struct {
	FilesIndexed      prometheus.Counter
	TrackPointsLoaded prometheus.Counter
	GenesisEvents     prometheus.Counter
	GenesisMatches    prometheus.Counter
	LabelsGenerated   prometheus.Counter
	LabelsDropped     prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// StageDuration observes elapsed seconds per pipeline stage.
	// Labels: stage={index,domain,load,align,label,write}.
	StageDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesIndexed,
		m.TrackPointsLoaded,
		m.GenesisEvents,
		m.GenesisMatches,
		m.LabelsGenerated,
		m.LabelsDropped,
		m.PipelineRunning,
		m.StageDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so parallel
// tests do not trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tc_labels",
			Name:      "observation_files_total",
			Help:      "Observation files discovered in the input directory.",
		}),
		TrackPointsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tc_labels",
			Name:      "track_points_total",
			Help:      "Best-track points retained after the domain filter.",
		}),
		GenesisEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tc_labels",
			Name:      "genesis_events_total",
			Help:      "Genesis events retained after the domain filter.",
		}),
		GenesisMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tc_labels",
			Name:      "genesis_matches_total",
			Help:      "Aligned rows that matched a genesis event.",
		}),
		LabelsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tc_labels",
			Name:      "labels_generated_total",
			Help:      "Label rows computed before the pre-existing-storm filter.",
		}),
		LabelsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tc_labels",
			Name:      "labels_dropped_total",
			Help:      "Label rows removed by the pre-existing-storm filter.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tc_labels",
			Name:      "pipeline_running",
			Help:      "1 while the label run is active, 0 once it finishes.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tc_labels",
			Name:      "stage_duration_seconds",
			Help:      "Elapsed time per pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"stage"}),
	}
}
