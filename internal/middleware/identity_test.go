package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/todoman/internal/model"
)

func TestIdentityMiddleware_InjectsUserIDIntoContext(t *testing.T) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Fatalf("UserIDFromContext() error = %v", err)
		}
		gotUserID = userID
	})

	handler := NewIdentityMiddleware()(next)

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("X-User-Id", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Errorf("userID = %q, want user-1", gotUserID)
	}
}

func TestIdentityMiddleware_MissingHeaderReturns401(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	handler := NewIdentityMiddleware()(next)

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("next handler called despite missing identity")
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON error response: %v", err)
	}
	if body["code"] != model.ErrCodeUnauthorized {
		t.Errorf("code = %v, want %s", body["code"], model.ErrCodeUnauthorized)
	}
}

func TestUserIDFromContext_MissingReturnsError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := UserIDFromContext(req.Context())
	if err == nil {
		t.Fatal("UserIDFromContext() error = nil, want error for missing value")
	}
}

func TestContextWithUserID_RoundTrip(t *testing.T) {
	ctx := ContextWithUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "user-7")

	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext() error = %v", err)
	}
	if userID != "user-7" {
		t.Errorf("userID = %q, want user-7", userID)
	}
}
