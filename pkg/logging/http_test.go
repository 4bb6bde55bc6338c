package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := HTTPLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest("GET", "/api/verification/stats?limit=5", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Fatalf("middleware must not change the response, got %d", w.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}

	if entry["msg"] != "http_request" {
		t.Errorf("expected http_request message, got %v", entry["msg"])
	}
	if entry["method"] != "GET" {
		t.Errorf("expected GET, got %v", entry["method"])
	}
	if entry["path"] != "/api/verification/stats" {
		t.Errorf("expected request path, got %v", entry["path"])
	}
	if entry["query"] != "limit=5" {
		t.Errorf("expected query string, got %v", entry["query"])
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("expected captured status, got %v", entry["status"])
	}
	if entry["bytes"] != float64(len("short and stout")) {
		t.Errorf("expected byte count, got %v", entry["bytes"])
	}
}

func TestHTTPLoggingMiddlewareDefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := HTTPLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("implicit 200 must be recorded, got %v", entry["status"])
	}
}
