// Package api exposes the verification pipeline over HTTP for host
// processes that prefer a service boundary to a library call.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/contenttrust/verifier/internal/database"
	"github.com/contenttrust/verifier/internal/models"
	"github.com/contenttrust/verifier/internal/verifier"
	"github.com/contenttrust/verifier/pkg/tracing"
)

// QueueClient enqueues asynchronous batch verifications.
type QueueClient interface {
	EnqueueVerifyBatch(ctx context.Context, sessionID string, items []models.ContentItem) (string, error)
}

// Handler handles HTTP requests
type Handler struct {
	db           *database.DB
	orchestrator *verifier.Orchestrator
	queueClient  QueueClient
	mux          *http.ServeMux
}

// NewHandler creates a new API handler with CORS support and metrics.
// queueClient may be nil; async verification then responds 503.
func NewHandler(db *database.DB, orchestrator *verifier.Orchestrator, queueClient QueueClient) http.Handler {
	h := &Handler{
		db:           db,
		orchestrator: orchestrator,
		queueClient:  queueClient,
		mux:          http.NewServeMux(),
	}

	h.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(h.mux)
}

// setupRoutes configures all API routes
func (h *Handler) setupRoutes() {
	h.mux.Handle("/metrics", promhttp.Handler()) // Prometheus metrics endpoint
	h.mux.HandleFunc("/api/verification/start", h.handleStart)
	h.mux.HandleFunc("/api/verification/status/", h.handleStatus)
	h.mux.HandleFunc("/api/verification/summary/", h.handleSummary)
	h.mux.HandleFunc("/api/verification/results/", h.handleResults)
	h.mux.HandleFunc("/api/verification/reports/", h.handleReportOperations)
	h.mux.HandleFunc("/api/verification/sessions", h.handleListSessions)
	h.mux.HandleFunc("/api/verification/stats", h.handleStats)
	h.mux.HandleFunc("/health", h.handleHealth)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleStart accepts a batch for verification. With "async" set the
// batch is queued and a task id returned; otherwise the report comes
// back in the response.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SessionID string               `json:"session_id"`
		Items     []models.ContentItem `json:"items"`
		Async     bool                 `json:"async"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Items) == 0 {
		respondError(w, "At least one item is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.String("session.id", req.SessionID),
		attribute.Int("items.count", len(req.Items)),
		attribute.Bool("async", req.Async))

	if req.Async {
		if h.queueClient == nil {
			respondError(w, "Async verification is not configured", http.StatusServiceUnavailable)
			return
		}
		taskID, err := h.queueClient.EnqueueVerifyBatch(r.Context(), req.SessionID, req.Items)
		if err != nil {
			respondError(w, fmt.Sprintf("Failed to enqueue verification: %v", err), http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{
			"session_id": req.SessionID,
			"task_id":    taskID,
			"status":     "queued",
			"message":    "Verification queued for processing",
		}, http.StatusAccepted)
		return
	}

	report := h.orchestrator.Process(r.Context(), req.SessionID, req.Items)

	if err := h.db.SaveReport(report); err != nil {
		respondError(w, fmt.Sprintf("Failed to save report: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, report, http.StatusOK)
}

// handleStatus reports whether a session has a stored report.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromPath(w, r, "/api/verification/status/")
	if !ok {
		return
	}

	report, err := h.db.GetReport(sessionID)
	if err != nil {
		if errors.Is(err, database.ErrReportNotFound) {
			respondJSON(w, map[string]any{
				"session_id": sessionID,
				"status":     "not_found",
				"message":    "No report for this session - it may still be queued",
			}, http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := "completed"
	if report.Partial {
		status = "partial"
	}

	respondJSON(w, map[string]any{
		"session_id":     sessionID,
		"status":         status,
		"overall_status": report.OverallStatus,
		"quality_score":  report.QualityScore,
		"verified_at":    report.VerifiedAt,
	}, http.StatusOK)
}

// handleSummary returns the condensed report for a session.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromPath(w, r, "/api/verification/summary/")
	if !ok {
		return
	}

	summary, err := h.db.GetSummary(sessionID)
	if err != nil {
		if errors.Is(err, database.ErrReportNotFound) {
			respondError(w, "report not found", http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, summary, http.StatusOK)
}

// handleResults returns paginated per-item results for a session.
func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromPath(w, r, "/api/verification/results/")
	if !ok {
		return
	}

	limit, offset := paginationParams(r, 20)

	report, err := h.db.GetReport(sessionID)
	if err != nil {
		if errors.Is(err, database.ErrReportNotFound) {
			respondError(w, "report not found", http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	results := report.Results
	total := len(results)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	respondJSON(w, map[string]any{
		"session_id": sessionID,
		"total":      total,
		"offset":     offset,
		"limit":      limit,
		"results":    results[offset:end],
	}, http.StatusOK)
}

// handleReportOperations handles GET and DELETE for stored reports.
func (h *Handler) handleReportOperations(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/verification/reports/")
	if sessionID == "" {
		respondError(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		report, err := h.db.GetReport(sessionID)
		if err != nil {
			if errors.Is(err, database.ErrReportNotFound) {
				respondError(w, "report not found", http.StatusNotFound)
				return
			}
			respondError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, report, http.StatusOK)
	case http.MethodDelete:
		if err := h.db.DeleteReport(sessionID); err != nil {
			if errors.Is(err, database.ErrReportNotFound) {
				respondError(w, "report not found", http.StatusNotFound)
				return
			}
			respondError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListSessions lists recent verification sessions.
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, offset := paginationParams(r, 10)

	sessions, err := h.db.ListSessions(limit, offset)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, sessions, http.StatusOK)
}

// handleStats returns the orchestrator's running counters.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, h.orchestrator.Stats(), http.StatusOK)
}

func (h *Handler) sessionFromPath(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	sessionID := strings.TrimPrefix(r.URL.Path, prefix)
	if idx := strings.Index(sessionID, "/"); idx != -1 {
		sessionID = sessionID[:idx]
	}
	if sessionID == "" {
		respondError(w, "Session ID is required", http.StatusBadRequest)
		return "", false
	}
	return sessionID, true
}

func paginationParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
