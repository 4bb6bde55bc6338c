package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/contenttrust/verifier/internal/models"
)

// Task type constants
const (
	TypeVerifyBatch = "verification:batch"
)

// Queue names and priorities. Verification runs ahead of housekeeping
// but queues are drained proportionally, not strictly.
const (
	QueueVerification = "verification"
	QueueMaintenance  = "maintenance"
)

// VerifyBatchPayload carries one batch through the queue.
type VerifyBatchPayload struct {
	SessionID string               `json:"session_id"`
	Items     []models.ContentItem `json:"items"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// Client wraps the Asynq client for enqueueing verification tasks.
type Client struct {
	client *asynq.Client
}

// ClientConfig contains configuration for the queue client
type ClientConfig struct {
	RedisAddr string
}

// NewClient creates a new queue client
func NewClient(cfg ClientConfig) *Client {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	return &Client{
		client: asynq.NewClient(redisOpt),
	}
}

// Close releases the underlying redis connections.
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueVerifyBatch enqueues a batch verification task. The task id is
// the session id so a resubmitted session replaces its pending task
// instead of queueing twice.
func (c *Client) EnqueueVerifyBatch(ctx context.Context, sessionID string, items []models.ContentItem) (string, error) {
	payload := VerifyBatchPayload{
		SessionID:  sessionID,
		Items:      items,
		EnqueuedAt: time.Now().UnixNano(),
	}

	// Propagate tracing context if available
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		payload.TraceID = spanCtx.TraceID().String()
		payload.SpanID = spanCtx.SpanID().String()

		span.AddEvent("task_enqueued", trace.WithAttributes(
			attribute.String("task.type", TypeVerifyBatch),
			attribute.String("session.id", sessionID),
			attribute.Int("items.count", len(items)),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		))
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TypeVerifyBatch, payloadBytes, asynq.TaskID(sessionID))

	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(10 * time.Minute),
		asynq.Queue(QueueVerification),
		asynq.Retention(7 * 24 * time.Hour),
	}

	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue verify batch task: %w", err)
	}

	return info.ID, nil
}
