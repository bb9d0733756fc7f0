package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one run. A run is short-lived,
// so collectors live on their own registry and are written out with
// WriteTextfile instead of being scraped.
type Metrics struct {
	Registry *prometheus.Registry

	RowsLoaded  *prometheus.CounterVec // labels: dataset
	RowsDropped *prometheus.CounterVec // labels: dataset

	AnalysisOutcomes *prometheus.CounterVec // labels: analysis, outcome={rendered,empty,invalid,error}
	ChartsRendered   prometheus.Counter
	RenderDuration   prometheus.Histogram

	TrendsPublished *prometheus.CounterVec // labels: result={success,error}
}

// NewMetrics creates all collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_trends",
			Name:      "rows_loaded_total",
			Help:      "Rows read from each source dataset.",
		}, []string{"dataset"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_trends",
			Name:      "rows_dropped_total",
			Help:      "Rows removed while cleaning each source dataset.",
		}, []string{"dataset"}),
		AnalysisOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_trends",
			Name:      "analysis_outcomes_total",
			Help:      "Analyses by kind and outcome.",
		}, []string{"analysis", "outcome"}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_trends",
			Name:      "charts_rendered_total",
			Help:      "Chart files written.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_trends",
			Name:      "render_duration_seconds",
			Help:      "Time to draw and save one chart.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		TrendsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_trends",
			Name:      "trends_published_total",
			Help:      "Trend events sent to Kafka by result.",
		}, []string{"result"}),
	}

	m.Registry.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.AnalysisOutcomes,
		m.ChartsRendered,
		m.RenderDuration,
		m.TrendsPublished,
	)

	return m
}

// WriteTextfile writes every registered metric to path in the text
// exposition format read by node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
