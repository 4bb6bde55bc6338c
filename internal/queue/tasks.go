package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// handleVerifyBatch runs the verification pipeline for one queued batch
// and persists the resulting report.
func (w *Worker) handleVerifyBatch(ctx context.Context, t *asynq.Task) error {
	var payload VerifyBatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %w", err)
	}

	var queueWaitTime time.Duration
	if payload.EnqueuedAt > 0 {
		queueWaitTime = time.Since(time.Unix(0, payload.EnqueuedAt))
	}

	w.logger.Info("processing batch verification task",
		"session_id", payload.SessionID,
		"items", len(payload.Items),
		"queue_wait_seconds", queueWaitTime.Seconds(),
	)

	ctx, span := w.spanFromPayload(ctx, &payload, queueWaitTime)
	if span != nil {
		defer span.End()
	}

	report := w.orchestrator.Process(ctx, payload.SessionID, payload.Items)

	if err := w.db.SaveReport(report); err != nil {
		return fmt.Errorf("failed to save report for session %s: %w", payload.SessionID, err)
	}

	if report.Partial {
		// Completed items are persisted; the retry reruns the whole
		// batch since per-item evaluation is idempotent.
		return fmt.Errorf("batch %s interrupted after %d items", payload.SessionID, report.Statistics.TotalItems)
	}

	if span != nil {
		span.SetAttributes(
			attribute.String("report.overall_status", report.OverallStatus),
			attribute.Int("report.items_approved", report.Statistics.ItemsApproved),
			attribute.Int("report.items_rejected", report.Statistics.ItemsRejected),
			attribute.Float64("report.quality_score", report.QualityScore),
		)
	}

	w.logger.Info("batch verification task completed",
		"session_id", payload.SessionID,
		"overall_status", report.OverallStatus,
		"quality_score", report.QualityScore,
	)

	return nil
}

// spanFromPayload recreates the producer's trace context so the consumer
// span links back to the enqueueing request.
func (w *Worker) spanFromPayload(ctx context.Context, payload *VerifyBatchPayload, queueWait time.Duration) (context.Context, trace.Span) {
	if payload.TraceID == "" || payload.SpanID == "" {
		return ctx, nil
	}

	traceID, err := trace.TraceIDFromHex(payload.TraceID)
	if err != nil {
		return ctx, nil
	}
	spanID, err := trace.SpanIDFromHex(payload.SpanID)
	if err != nil {
		return ctx, nil
	}

	remoteSpanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx = trace.ContextWithRemoteSpanContext(ctx, remoteSpanCtx)

	ctx, span := otel.Tracer("contenttrust").Start(ctx, "asynq.task.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", TypeVerifyBatch),
			attribute.String("session.id", payload.SessionID),
			attribute.Int("items.count", len(payload.Items)),
			attribute.Float64("queue.wait_time_seconds", queueWait.Seconds()),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		),
	)
	span.AddEvent("task_processing_started", trace.WithAttributes(
		attribute.Float64("wait_time_seconds", queueWait.Seconds()),
	))
	return ctx, span
}
