package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/renrakucho/internal/contact"
	"github.com/hitoshi/renrakucho/internal/metrics"
	"github.com/hitoshi/renrakucho/internal/middleware"
	"github.com/hitoshi/renrakucho/internal/model"
)

// mockTokenResolver はmiddleware.TokenResolverのテスト用モック。
type mockTokenResolver struct {
	ResolveByTokenFn func(ctx context.Context, token string) (*model.User, error)
}

var _ middleware.TokenResolver = (*mockTokenResolver)(nil)

func (m *mockTokenResolver) ResolveByToken(ctx context.Context, token string) (*model.User, error) {
	return m.ResolveByTokenFn(ctx, token)
}

// newTestRouter は統合テスト用のルーターを構築する。
// "valid-token" だけを user-1 に解決するリゾルバーを使用する。
func newTestRouter(t *testing.T, deps *RouterDeps) (http.Handler, *middleware.RateLimiter) {
	t.Helper()

	if deps.TokenResolver == nil {
		deps.TokenResolver = &mockTokenResolver{
			ResolveByTokenFn: func(ctx context.Context, token string) (*model.User, error) {
				if token == "valid-token" {
					return &model.User{ID: "user-1", Username: "taro"}, nil
				}
				return nil, nil
			},
		}
	}
	if deps.CORSAllowedOrigin == "" {
		deps.CORSAllowedOrigin = "http://localhost:3000"
	}

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)
	deps.RateLimiter = rl

	return NewRouter(deps), rl
}

func TestRouter_ProtectedRoute_WithoutToken_Returns401(t *testing.T) {
	userSvc := &mockUserService{
		GetCurrentFn: func(ctx context.Context, userID string) (*model.User, error) {
			t.Fatal("認証なしではサービスに到達してはならない")
			return nil, nil
		},
	}
	router, _ := newTestRouter(t, &RouterDeps{UserService: userSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assertErrorResponse(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestRouter_ProtectedRoute_WithValidToken_Succeeds(t *testing.T) {
	userSvc := &mockUserService{
		GetCurrentFn: func(ctx context.Context, userID string) (*model.User, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			return &model.User{ID: userID, Username: "taro", Name: "山田太郎"}, nil
		},
	}
	router, _ := newTestRouter(t, &RouterDeps{UserService: userSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	req.Header.Set("Authorization", "valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRouter_Register_DoesNotRequireAuth(t *testing.T) {
	authSvc := &mockAuthService{
		RegisterFn: func(ctx context.Context, username, password, name string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, Name: name}, nil
		},
	}
	router, _ := newTestRouter(t, &RouterDeps{AuthService: authSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"username":"taro","password":"secret123","name":"山田太郎"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestRouter_Login_DoesNotRequireAuth(t *testing.T) {
	authSvc := &mockAuthService{
		LoginFn: func(ctx context.Context, username, password string) (*model.User, string, error) {
			return &model.User{ID: "user-1", Username: username}, "issued-token", nil
		},
	}
	router, _ := newTestRouter(t, &RouterDeps{AuthService: authSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/users/login",
		strings.NewReader(`{"username":"taro","password":"secret123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRouter_NestedContactRoutes_AreWired(t *testing.T) {
	contactSvc := &mockContactService{
		SearchFn: func(ctx context.Context, userID string, query contact.SearchQuery) (*contact.SearchResult, error) {
			return &contact.SearchResult{Page: 1, TotalPage: 1}, nil
		},
	}
	router, _ := newTestRouter(t, &RouterDeps{ContactService: contactSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRouter_Health_WithoutDB_ReturnsOK(t *testing.T) {
	router, _ := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if body["data"] != "OK" {
		t.Errorf("data = %v, want OK", body["data"])
	}
}

func TestRouter_MetricsEndpoint_ServedWhenGathererProvided(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router, _ := newTestRouter(t, &RouterDeps{
		Metrics:  collector,
		Gatherer: registry,
	})

	// 一度リクエストを流してカウンターを進める
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "renrakucho_http_requests_total") {
		t.Error("メトリクス出力にrenrakucho_http_requests_totalが含まれていません")
	}
}

func TestRouter_MetricsEndpoint_AbsentWithoutGatherer(t *testing.T) {
	router, _ := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRouter_UnknownRoute_Returns404(t *testing.T) {
	router, _ := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRouter_SecurityHeaders_Applied(t *testing.T) {
	router, _ := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", rec.Header().Get("X-Content-Type-Options"))
	}
}

func TestRouter_CORSPreflight_Handled(t *testing.T) {
	router, _ := newTestRouter(t, &RouterDeps{CORSAllowedOrigin: "https://app.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want https://app.example.com", got)
	}
}
