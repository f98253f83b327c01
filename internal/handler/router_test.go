package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/todoman/internal/auth"
	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/model"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	todoSvc := &mockTodoService{
		listFunc: func(ctx context.Context, userID string) ([]*model.Todo, error) {
			return []*model.Todo{}, nil
		},
	}
	authSvc := &mockAuthService{
		loginWithKakaoFunc: func(ctx context.Context, code, redirectURI string) (*auth.RegistrationResult, error) {
			return registrationResult(true), nil
		},
	}
	userSvc := &mockUserService{
		getFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Provider: "kakao", Name: "Alice"}, nil
		},
	}

	return NewRouter(&RouterDeps{
		CORSAllowedOrigin: "http://localhost:3000",
		Metrics:           collector,
		Gatherer:          registry,
		TodoService:       todoSvc,
		AuthService:       authSvc,
		UserService:       userSvc,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestRouter_Health_UnhealthyChecker(t *testing.T) {
	registry := prometheus.NewRegistry()
	router := NewRouter(&RouterDeps{
		HealthChecker: failingChecker{},
		Gatherer:      registry,
		TodoService:   &mockTodoService{},
		AuthService:   &mockAuthService{},
		UserService:   &mockUserService{},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

type failingChecker struct{}

func (failingChecker) PingContext(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_TodosRequireIdentity(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without X-User-Id", rec.Code)
	}
}

func TestRouter_TodosWithIdentity(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("X-User-Id", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestRouter_KakaoLoginIsUnauthenticated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/kakao", strings.NewReader(`{"code":"auth-code"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}

func TestRouter_UserProfileRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/kakao-123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["id"] != "kakao-123" {
		t.Errorf("id = %v, want kakao-123", body["id"])
	}
}

func TestRouter_SetsRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header not set")
	}
}
