package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/contenttrust/verifier/internal/database"
	"github.com/contenttrust/verifier/internal/verifier"
)

// Worker wraps the Asynq server for processing verification tasks
type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	db           *database.DB
	orchestrator *verifier.Orchestrator
	concurrency  int
	logger       *slog.Logger
}

// WorkerConfig contains configuration for the queue worker
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
}

// verifyRetryDelays backs off modestly: batches are cheap to rerun and
// callers decide whether to resubmit beyond the retry budget.
var verifyRetryDelays = []time.Duration{
	30 * time.Second,
	2 * time.Minute,
	10 * time.Minute,
}

// NewWorker creates a new queue worker
func NewWorker(cfg WorkerConfig, db *database.DB, orchestrator *verifier.Orchestrator) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	serverCfg := asynq.Config{
		Concurrency: cfg.Concurrency,

		// Verification outranks maintenance; proportional draining so
		// maintenance never starves.
		Queues: map[string]int{
			QueueVerification: 6,
			QueueMaintenance:  2,
		},
		StrictPriority: false,

		RetryDelayFunc: retryDelay,

		ShutdownTimeout: 30 * time.Second,

		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)

			slog.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := &Worker{
		server:       asynq.NewServer(redisOpt, serverCfg),
		mux:          asynq.NewServeMux(),
		db:           db,
		orchestrator: orchestrator,
		concurrency:  cfg.Concurrency,
		logger:       slog.Default(),
	}

	w.mux.HandleFunc(TypeVerifyBatch, w.handleVerifyBatch)

	return w
}

func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < len(verifyRetryDelays) {
		return verifyRetryDelays[n]
	}
	return verifyRetryDelays[len(verifyRetryDelays)-1]
}

// Start starts the worker to begin processing tasks
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queues", map[string]int{QueueVerification: 6, QueueMaintenance: 2},
	)

	// Run is blocking - starts processing tasks
	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the worker
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}
