// Package metrics records batch scoring runs as Prometheus metrics and writes
// them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dtnitsch/llm-readiness/models"
)

const namespace = "llm_readiness"

// Recorder holds the metrics of one run on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	PagesScored   *prometheus.CounterVec
	PagesUngraded prometheus.Counter
	IssuesTotal   *prometheus.CounterVec
	OverallScore  prometheus.Histogram
	ScoreDuration prometheus.Histogram
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		PagesScored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_scored_total",
			Help:      "Pages scored, by letter grade.",
		}, []string{"grade"}),
		PagesUngraded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_ungraded_total",
			Help:      "Pages that could not be scored.",
		}),
		IssuesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issues_total",
			Help:      "Issues detected, by code and severity.",
		}, []string{"code", "severity"}),
		OverallScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overall_score",
			Help:      "Distribution of overall page scores.",
			Buckets:   []float64{20, 40, 60, 70, 80, 90, 100},
		}),
		ScoreDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_duration_seconds",
			Help:      "Time spent scoring one page.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

// ObserveScore records one scored page and its issues.
func (r *Recorder) ObserveScore(ps *models.PageScore, took time.Duration) {
	r.PagesScored.WithLabelValues(ps.LetterGrade).Inc()
	r.OverallScore.Observe(float64(ps.OverallScore))
	r.ScoreDuration.Observe(took.Seconds())
	for _, issue := range ps.Issues {
		r.IssuesTotal.WithLabelValues(issue.Code, string(issue.Severity)).Inc()
	}
}

func (r *Recorder) ObserveUngraded() {
	r.PagesUngraded.Inc()
}

// Gatherer exposes the registry, e.g. for promhttp.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteToTextfile atomically writes every metric to path.
func (r *Recorder) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
