// Package metrics provides a Prometheus-backed stats sink for the
// verification pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/contenttrust/verifier/internal/models"
)

// Sink implements verifier.StatsSink on Prometheus collectors.
type Sink struct {
	itemsTotal    *prometheus.CounterVec
	signalErrors  prometheus.Counter
	batchesTotal  *prometheus.CounterVec
	batchDuration prometheus.Histogram
	batchSize     prometheus.Histogram
	confidence    prometheus.Histogram
}

// NewSink registers the pipeline collectors with the given registerer.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewSink(reg prometheus.Registerer) *Sink {
	s := &Sink{
		itemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contenttrust",
			Name:      "items_verified_total",
			Help:      "Items verified, by decision status.",
		}, []string{"status"}),
		signalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "contenttrust",
			Name:      "signal_errors_total",
			Help:      "Non-fatal signal extractor failures.",
		}),
		batchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contenttrust",
			Name:      "batches_total",
			Help:      "Batches processed, by overall status.",
		}, []string{"status"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "contenttrust",
			Name:      "batch_duration_seconds",
			Help:      "Wall-clock batch processing time.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "contenttrust",
			Name:      "batch_size_items",
			Help:      "Items per batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "contenttrust",
			Name:      "item_final_confidence",
			Help:      "Distribution of final per-item confidence.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}

	reg.MustRegister(
		s.itemsTotal,
		s.signalErrors,
		s.batchesTotal,
		s.batchDuration,
		s.batchSize,
		s.confidence,
	)
	return s
}

// ObserveItem records one item decision.
func (s *Sink) ObserveItem(result models.AnalysisResult) {
	s.itemsTotal.WithLabelValues(string(result.Decision.Status)).Inc()
	s.confidence.Observe(result.Decision.FinalConfidence)
	if result.Errored() {
		s.signalErrors.Add(float64(len(result.SignalErrors)))
	}
}

// ObserveBatch records one completed batch.
func (s *Sink) ObserveBatch(report *models.BatchReport) {
	s.batchesTotal.WithLabelValues(report.OverallStatus).Inc()
	s.batchDuration.Observe(report.ProcessingSeconds)
	s.batchSize.Observe(float64(report.Statistics.TotalItems))
}
