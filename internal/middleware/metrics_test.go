package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// recordedRequest はRequestRecorderが受け取った1件の記録。
type recordedRequest struct {
	method     string
	path       string
	statusCode int
	duration   time.Duration
}

// mockRecorder はRequestRecorderのテスト用モック。
type mockRecorder struct {
	requests []recordedRequest
}

func (m *mockRecorder) RecordRequest(method, path string, statusCode int, duration time.Duration) {
	m.requests = append(m.requests, recordedRequest{method, path, statusCode, duration})
}

func TestMetricsMiddleware_RecordsStatusAndDuration(t *testing.T) {
	rec := &mockRecorder{}

	handler := NewMetricsMiddleware(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/abc", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if len(rec.requests) != 1 {
		t.Fatalf("len(requests) = %d, want 1", len(rec.requests))
	}
	got := rec.requests[0]
	if got.method != http.MethodGet {
		t.Errorf("method = %q, want %q", got.method, http.MethodGet)
	}
	if got.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want %d", got.statusCode, http.StatusNotFound)
	}
	if got.duration < 0 {
		t.Errorf("duration = %v, want >= 0", got.duration)
	}
}

func TestMetricsMiddleware_UsesRoutePatternForPath(t *testing.T) {
	rec := &mockRecorder{}

	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware(rec))
	r.Get("/api/contacts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/abc-123", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if len(rec.requests) != 1 {
		t.Fatalf("len(requests) = %d, want 1", len(rec.requests))
	}
	// 生のIDではなくルートパターンが記録されること
	if rec.requests[0].path != "/api/contacts/{id}" {
		t.Errorf("path = %q, want %q", rec.requests[0].path, "/api/contacts/{id}")
	}
}
