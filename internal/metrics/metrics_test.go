package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/contenttrust/verifier/internal/models"
)

func TestSinkObserveItem(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewSink(reg)

	sink.ObserveItem(models.AnalysisResult{
		Decision: models.Decision{Status: models.StatusApproved, FinalConfidence: 0.9},
	})
	sink.ObserveItem(models.AnalysisResult{
		Decision:     models.Decision{Status: models.StatusRejected, FinalConfidence: 0.4},
		SignalErrors: []string{"signal contextual failed: offline"},
	})

	if got := testutil.ToFloat64(sink.itemsTotal.WithLabelValues("approved")); got != 1 {
		t.Errorf("expected 1 approved item, got %v", got)
	}
	if got := testutil.ToFloat64(sink.itemsTotal.WithLabelValues("rejected")); got != 1 {
		t.Errorf("expected 1 rejected item, got %v", got)
	}
	if got := testutil.ToFloat64(sink.signalErrors); got != 1 {
		t.Errorf("expected 1 signal error, got %v", got)
	}
}

func TestSinkObserveBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewSink(reg)

	sink.ObserveBatch(&models.BatchReport{
		OverallStatus:     "approved",
		ProcessingSeconds: 0.25,
		Statistics:        models.Statistics{TotalItems: 12},
	})

	if got := testutil.ToFloat64(sink.batchesTotal.WithLabelValues("approved")); got != 1 {
		t.Errorf("expected 1 approved batch, got %v", got)
	}
}

func TestSinkDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSink(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	NewSink(reg)
}
