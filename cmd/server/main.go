package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/contenttrust/verifier/internal/analyzer"
	"github.com/contenttrust/verifier/internal/api"
	"github.com/contenttrust/verifier/internal/config"
	"github.com/contenttrust/verifier/internal/database"
	"github.com/contenttrust/verifier/internal/metrics"
	"github.com/contenttrust/verifier/internal/queue"
	"github.com/contenttrust/verifier/internal/review"
	"github.com/contenttrust/verifier/internal/verifier"
	"github.com/contenttrust/verifier/pkg/logging"
	"github.com/contenttrust/verifier/pkg/tracing"
)

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("contenttrust verifier initializing", "version", "1.0.0")

	// Initialize tracing
	tp, err := tracing.InitTracer("contenttrust-verifier")
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	// Get default values from environment variables, with fallbacks
	portDefault := getEnv("PORT", "8080")
	dbPathDefault := getEnv("DB_PATH", "verifier.db")
	configPathDefault := getEnv("CONFIG_PATH", "")
	redisAddrDefault := getEnv("REDIS_ADDR", "")
	ollamaURLDefault := getEnv("OLLAMA_URL", "http://localhost:11434")
	ollamaModelDefault := getEnv("OLLAMA_MODEL", review.DefaultModel)
	useOllamaDefault := getEnvBool("USE_OLLAMA", false)
	concurrencyDefault := getEnvInt("WORKER_CONCURRENCY", 4)

	var (
		port        = flag.String("port", portDefault, "Server port (env: PORT)")
		dbPath      = flag.String("db", dbPathDefault, "Database file path (env: DB_PATH)")
		configPath  = flag.String("config", configPathDefault, "Pipeline config YAML path (env: CONFIG_PATH)")
		redisAddr   = flag.String("redis", redisAddrDefault, "Redis address for async batches, empty disables the queue (env: REDIS_ADDR)")
		ollamaURL   = flag.String("ollama-url", ollamaURLDefault, "Ollama API URL (env: OLLAMA_URL)")
		ollamaModel = flag.String("ollama-model", ollamaModelDefault, "Ollama model to use (env: OLLAMA_MODEL)")
		useOllama   = flag.Bool("use-ollama", useOllamaDefault, "Enable LLM-backed contextual review (env: USE_OLLAMA)")
		concurrency = flag.Int("worker-concurrency", concurrencyDefault, "Queue worker concurrency (env: WORKER_CONCURRENCY)")
	)
	flag.Parse()

	// Load pipeline configuration
	cfg := verifier.DefaultConfig()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err, "config_path", *configPath)
			os.Exit(1)
		}
		logger.Info("pipeline config loaded", "config_path", *configPath)
	}

	// Initialize database
	db, err := database.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err, "database_path", *dbPath)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Build the verification pipeline, optionally with LLM-backed
	// contextual review in front of the heuristic fallback.
	var opts []verifier.Option
	if *useOllama {
		fallback := analyzer.NewHeuristicContextual(cfg.SourceReliability)
		reviewer, err := review.New(*ollamaURL, *ollamaModel, fallback)
		if err != nil {
			logger.Warn("failed to initialize reviewer, using heuristic contextual analysis",
				"error", err,
				"ollama_url", *ollamaURL,
				"ollama_model", *ollamaModel,
			)
		} else {
			logger.Info("LLM reviewer initialized", "model", *ollamaModel, "url", *ollamaURL)
			opts = append(opts, verifier.WithContextualSignal(reviewer))
		}
	}

	v, err := verifier.New(cfg, opts...)
	if err != nil {
		logger.Error("failed to build verifier", "error", err)
		os.Exit(1)
	}

	sink := metrics.NewSink(prometheus.DefaultRegisterer)
	orchestrator := verifier.NewOrchestrator(v,
		verifier.WithStatsSink(sink),
		verifier.WithLogger(logger),
	)

	// Optional async queue. Without redis the API still serves
	// synchronous verification.
	var queueClient *queue.Client
	var worker *queue.Worker
	if *redisAddr != "" {
		queueClient = queue.NewClient(queue.ClientConfig{RedisAddr: *redisAddr})
		defer queueClient.Close()

		worker = queue.NewWorker(queue.WorkerConfig{
			RedisAddr:   *redisAddr,
			Concurrency: *concurrency,
		}, db, orchestrator)

		go func() {
			if err := worker.Start(); err != nil {
				logger.Error("queue worker failed", "error", err)
				os.Exit(1)
			}
		}()
		logger.Info("queue worker started", "redis_addr", *redisAddr, "concurrency", *concurrency)
	} else {
		logger.Info("queue disabled, async verification unavailable")
	}

	// Initialize API handler
	var apiHandler http.Handler
	if queueClient != nil {
		apiHandler = api.NewHandler(db, orchestrator, queueClient)
	} else {
		apiHandler = api.NewHandler(db, orchestrator, nil)
	}

	// Wrap handler with middleware chain: HTTP logging -> tracing -> handlers
	handler := logging.HTTPLoggingMiddleware(logger)(
		tracing.HTTPMiddleware("contenttrust-verifier")(apiHandler),
	)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // large synchronous batches
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("contenttrust verifier starting",
			"port", *port,
			"database", *dbPath,
			"queue_enabled", *redisAddr != "",
			"ollama_enabled", *useOllama,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if worker != nil {
		worker.Shutdown()
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
