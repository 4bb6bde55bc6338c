package verifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/contenttrust/verifier/internal/analyzer"
	"github.com/contenttrust/verifier/internal/models"
)

// StatsSink receives pipeline observations, e.g. for Prometheus
// counters. Implementations must be safe for concurrent use since
// batches may run concurrently in one process.
type StatsSink interface {
	ObserveItem(result models.AnalysisResult)
	ObserveBatch(report *models.BatchReport)
}

// Recommendation texts. The recommendation list is a deterministic
// function of the aggregate statistics, always emitted in this order.
const (
	recDataQuality  = "High rejection rate detected. Review the quality of the collected data."
	recStrategy     = "High volume of negative sentiment content. Consider adjusting the collection strategy."
	recMoreData     = "Many items with low confidence. Consider collecting additional data."
	recProceed      = "Content approved by trust verification. Quality adequate to proceed."
	recNoData       = "No items found for verification. Run the collection steps first."
	recSourceReview = "%d items with high bias risk detected. Review data sources."
)

// Issue collection caps and boundaries.
const (
	maxTopIssues      = 10
	highBiasIssueRisk = 0.6
)

// Orchestrator drives the verifier over ordered item collections and
// owns its running counters; there is no process-wide mutable state.
type Orchestrator struct {
	verifier    *Verifier
	concurrency int
	sink        StatsSink
	logger      *slog.Logger

	// Cross-batch running counters. Concurrent batches share the
	// orchestrator, so these stay behind atomics.
	batchesProcessed atomic.Int64
	itemsProcessed   atomic.Int64
	itemsApproved    atomic.Int64
	itemsRejected    atomic.Int64
}

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithStatsSink attaches a sink for pipeline observations.
func WithStatsSink(sink StatsSink) OrchestratorOption {
	return func(o *Orchestrator) {
		if sink != nil {
			o.sink = sink
		}
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator builds an orchestrator around a verifier.
func NewOrchestrator(v *Verifier, opts ...OrchestratorOption) *Orchestrator {
	concurrency := v.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	o := &Orchestrator{
		verifier:    v,
		concurrency: concurrency,
		sink:        noopSink{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ServiceStats is a snapshot of the orchestrator's running counters.
type ServiceStats struct {
	BatchesProcessed int64 `json:"batches_processed"`
	ItemsProcessed   int64 `json:"items_processed"`
	ItemsApproved    int64 `json:"items_approved"`
	ItemsRejected    int64 `json:"items_rejected"`
}

// Stats returns the running cross-batch counters.
func (o *Orchestrator) Stats() ServiceStats {
	return ServiceStats{
		BatchesProcessed: o.batchesProcessed.Load(),
		ItemsProcessed:   o.itemsProcessed.Load(),
		ItemsApproved:    o.itemsApproved.Load(),
		ItemsRejected:    o.itemsRejected.Load(),
	}
}

// Process verifies every item and assembles the batch report. Item
// evaluation runs concurrently (bounded by the configured concurrency);
// results are reassembled in submission order before aggregation. On
// context cancellation no further items are scheduled and the report is
// returned with Partial set, covering whatever completed.
func (o *Orchestrator) Process(ctx context.Context, sessionID string, items []models.ContentItem) *models.BatchReport {
	start := time.Now()
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	o.logger.Info("starting batch verification",
		"session_id", sessionID,
		"items", len(items),
		"concurrency", o.concurrency,
	)

	items = withAssignedIDs(items)
	bc := o.batchContext(items)

	results, partial := o.mapPhase(ctx, items, bc)
	report := o.reduce(sessionID, len(items), results, partial, start)

	o.batchesProcessed.Add(1)
	o.itemsProcessed.Add(int64(len(results)))
	o.itemsApproved.Add(int64(report.Statistics.ItemsApproved))
	o.itemsRejected.Add(int64(report.Statistics.ItemsRejected))
	o.sink.ObserveBatch(report)

	o.logger.Info("batch verification completed",
		"session_id", sessionID,
		"approved", report.Statistics.ItemsApproved,
		"rejected", report.Statistics.ItemsRejected,
		"errored", report.Statistics.ItemsWithErrors,
		"partial", report.Partial,
		"duration_seconds", report.ProcessingSeconds,
	)

	return report
}

// batchContext precomputes normalized texts for the contextual signal.
func (o *Orchestrator) batchContext(items []models.ContentItem) *analyzer.BatchContext {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = analyzer.NormalizeText(item)
	}
	return &analyzer.BatchContext{
		Items:             items,
		Texts:             texts,
		SourceReliability: o.verifier.cfg.SourceReliability,
	}
}

// mapPhase evaluates items on a bounded worker pool. The returned slice
// preserves submission order; on cancellation it holds only the items
// that completed.
func (o *Orchestrator) mapPhase(ctx context.Context, items []models.ContentItem, bc *analyzer.BatchContext) ([]models.AnalysisResult, bool) {
	if len(items) == 0 {
		return nil, false
	}

	workers := o.concurrency
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	results := make([]models.AnalysisResult, len(items))
	completed := make([]bool, len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.verifier.VerifyItem(ctx, items[i], bc)
				completed[i] = true
				o.sink.ObserveItem(results[i])
			}
		}()
	}

	cancelled := false
dispatch:
	for i := range items {
		select {
		case <-ctx.Done():
			cancelled = true
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if !cancelled {
		return results, false
	}

	done := make([]models.AnalysisResult, 0, len(items))
	for i, ok := range completed {
		if ok {
			done = append(done, results[i])
		}
	}
	return done, true
}

// reduce computes statistics, issues and recommendations from the
// ordered per-item results.
func (o *Orchestrator) reduce(sessionID string, totalSubmitted int, results []models.AnalysisResult, partial bool, start time.Time) *models.BatchReport {
	report := &models.BatchReport{
		SessionID:  sessionID,
		VerifiedAt: time.Now().UTC(),
		Results:    results,
		Partial:    partial,
	}

	stats := models.Statistics{TotalItems: len(results)}
	buckets := models.ConfidenceBuckets{}
	negativeCount := 0
	highBiasCount := 0
	lowConfidenceCount := 0
	var confidenceSum float64

	for i := range results {
		r := &results[i]
		confidence := r.Decision.FinalConfidence
		confidenceSum += confidence

		// Errored is disjoint from approved/rejected so the three
		// counts always sum to the total.
		switch {
		case r.Errored():
			stats.ItemsWithErrors++
		case r.Decision.Status == models.StatusApproved:
			stats.ItemsApproved++
		default:
			stats.ItemsRejected++
		}

		switch {
		case confidence > 0.8:
			buckets.High++
		case confidence >= 0.5:
			buckets.Medium++
		default:
			buckets.Low++
		}

		if r.Sentiment.Classification == "negative" {
			negativeCount++
		}
		if r.Bias.OverallRisk > highBiasIssueRisk {
			highBiasCount++
		}
		if confidence < 0.5 {
			lowConfidenceCount++
		}
	}

	if stats.TotalItems > 0 {
		stats.ApprovalRatePercent = float64(stats.ItemsApproved) / float64(stats.TotalItems) * 100
		stats.AverageConfidence = confidenceSum / float64(stats.TotalItems)
	}

	report.Statistics = stats
	report.Buckets = buckets
	report.QualityScore = stats.AverageConfidence * 100
	report.TopIssues = collectIssues(results)
	report.Recommendations = o.recommendations(stats, negativeCount, highBiasCount, lowConfidenceCount)

	switch {
	case stats.TotalItems == 0:
		report.OverallStatus = "no_data"
	case stats.ItemsApproved > stats.ItemsRejected:
		report.OverallStatus = string(models.StatusApproved)
	default:
		report.OverallStatus = string(models.StatusRejected)
	}

	report.ProcessingSeconds = time.Since(start).Seconds()
	return report
}

// collectIssues gathers rejection issues first, then high-bias issues,
// capped at maxTopIssues.
func collectIssues(results []models.AnalysisResult) []models.Issue {
	issues := []models.Issue{}

	for i := range results {
		r := &results[i]
		if r.Decision.Status == models.StatusRejected {
			issues = append(issues, models.Issue{
				ItemID:     r.ItemID,
				Type:       models.IssueRejection,
				Reason:     r.Decision.Reason,
				Confidence: r.Decision.FinalConfidence,
			})
		}
	}

	for i := range results {
		r := &results[i]
		if r.Bias.OverallRisk > highBiasIssueRisk {
			issues = append(issues, models.Issue{
				ItemID:  r.ItemID,
				Type:    models.IssueHighBiasRisk,
				Reason:  fmt.Sprintf("high bias risk detected: %.2f", r.Bias.OverallRisk),
				Details: r.Bias.BiasTerms,
			})
		}
	}

	if len(issues) > maxTopIssues {
		issues = issues[:maxTopIssues]
	}
	return issues
}

func (o *Orchestrator) recommendations(stats models.Statistics, negative, highBias, lowConfidence int) []string {
	if stats.TotalItems == 0 {
		return []string{recNoData}
	}

	recs := []string{}
	total := float64(stats.TotalItems)

	if float64(stats.ItemsRejected) > total*0.5 {
		recs = append(recs, recDataQuality)
	}
	if float64(negative) > total*0.3 {
		recs = append(recs, recStrategy)
	}
	if highBias > 0 {
		recs = append(recs, fmt.Sprintf(recSourceReview, highBias))
	}
	if float64(lowConfidence) > total*0.3 {
		recs = append(recs, recMoreData)
	}

	if len(recs) == 0 {
		recs = append(recs, recProceed)
	}
	return recs
}

// withAssignedIDs fills in deterministic ids for items submitted
// without one, preserving order.
func withAssignedIDs(items []models.ContentItem) []models.ContentItem {
	needsID := false
	for i := range items {
		if items[i].ID == "" {
			needsID = true
			break
		}
	}
	if !needsID {
		return items
	}

	out := make([]models.ContentItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = fmt.Sprintf("item_%d", i)
		}
	}
	return out
}

type noopSink struct{}

func (noopSink) ObserveItem(models.AnalysisResult) {}
func (noopSink) ObserveBatch(*models.BatchReport)  {}
