package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/renrakucho/internal/model"
)

// mockTokenResolver はTokenResolverのテスト用モック。
type mockTokenResolver struct {
	ResolveByTokenFn func(ctx context.Context, token string) (*model.User, error)
}

func (m *mockTokenResolver) ResolveByToken(ctx context.Context, token string) (*model.User, error) {
	return m.ResolveByTokenFn(ctx, token)
}

func authHandler(t *testing.T, resolver TokenResolver) (http.Handler, *string) {
	t.Helper()
	var gotUserID string
	h := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("user ID should be in context: %v", err)
		}
		gotUserID = userID
		w.WriteHeader(http.StatusOK)
	}))
	return h, &gotUserID
}

func TestAuthMiddleware_ValidToken_InjectsUserID(t *testing.T) {
	resolver := &mockTokenResolver{
		ResolveByTokenFn: func(ctx context.Context, token string) (*model.User, error) {
			if token == "valid-token" {
				return &model.User{ID: "user-1"}, nil
			}
			return nil, nil
		},
	}
	handler, gotUserID := authHandler(t, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if *gotUserID != "user-1" {
		t.Errorf("userID = %q, want %q", *gotUserID, "user-1")
	}
}

func TestAuthMiddleware_BearerPrefix_IsAccepted(t *testing.T) {
	resolver := &mockTokenResolver{
		ResolveByTokenFn: func(ctx context.Context, token string) (*model.User, error) {
			if token == "valid-token" {
				return &model.User{ID: "user-1"}, nil
			}
			return nil, nil
		},
	}
	handler, _ := authHandler(t, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingAndUnknownToken_SameResponse(t *testing.T) {
	resolver := &mockTokenResolver{
		ResolveByTokenFn: func(ctx context.Context, token string) (*model.User, error) {
			return nil, nil
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})
	handler := NewAuthMiddleware(resolver)(next)

	var bodies []string
	for _, token := range []string{"", "unknown-token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		bodies = append(bodies, w.Body.String())
	}

	// ヘッダー欠落とトークン不一致が外部から区別できないこと
	if bodies[0] != bodies[1] {
		t.Errorf("401 responses should be identical: %q vs %q", bodies[0], bodies[1])
	}

	var body ErrorResponseBody
	if err := json.Unmarshal([]byte(bodies[0]), &body); err != nil {
		t.Fatalf("failed to parse 401 body: %v", err)
	}
	if body.Code != string(model.KindUnauthorized) {
		t.Errorf("code = %q, want %q", body.Code, model.KindUnauthorized)
	}
}

func TestAuthMiddleware_ResolverError_Returns401(t *testing.T) {
	resolver := &mockTokenResolver{
		ResolveByTokenFn: func(ctx context.Context, token string) (*model.User, error) {
			return nil, errors.New("db down")
		},
	}

	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "some-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUserIDFromContext_NotSet_ReturnsError(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error when user ID is not set")
	}
}

func TestContextWithUserID_RoundTrip(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-1")
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want %q", userID, "user-1")
	}
}
