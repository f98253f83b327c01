package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// mockUserService は関数フィールドで振る舞いを差し替えられるユーザーサービスモック。
type mockUserService struct {
	getFunc        func(ctx context.Context, id string) (*model.User, error)
	updateNameFunc func(ctx context.Context, id, name string) (string, time.Time, error)
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	return m.getFunc(ctx, id)
}

func (m *mockUserService) UpdateName(ctx context.Context, id, name string) (string, time.Time, error) {
	return m.updateNameFunc(ctx, id, name)
}

func (m *mockUserService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func TestUserHandler_Get_ReturnsUser(t *testing.T) {
	ts := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	svc := &mockUserService{
		getFunc: func(ctx context.Context, id string) (*model.User, error) {
			if id != "kakao-123" {
				t.Errorf("id = %q, want kakao-123", id)
			}
			return &model.User{ID: id, Provider: "kakao", Name: "Alice", CreatedAt: ts, UpdatedAt: ts}, nil
		},
	}
	h := NewUserHandler(svc)

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/users/kakao-123", nil), "id", "kakao-123")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["name"] != "Alice" {
		t.Errorf("name = %v, want Alice", body["name"])
	}
}

func TestUserHandler_Get_MissingReturns404(t *testing.T) {
	svc := &mockUserService{
		getFunc: func(ctx context.Context, id string) (*model.User, error) {
			return nil, model.NewUserNotFoundError()
		},
	}
	h := NewUserHandler(svc)

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/users/nope", nil), "id", "nope")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != model.ErrCodeUserNotFound {
		t.Errorf("code = %v, want %s", body["code"], model.ErrCodeUserNotFound)
	}
}

func TestUserHandler_UpdateName_Success(t *testing.T) {
	updatedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc := &mockUserService{
		updateNameFunc: func(ctx context.Context, id, name string) (string, time.Time, error) {
			return "New Name", updatedAt, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/users/kakao-123", strings.NewReader(`{"name":"New Name"}`))
	req = withChiURLParam(req, "id", "kakao-123")
	rec := httptest.NewRecorder()
	h.UpdateName(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != true || body["name"] != "New Name" {
		t.Errorf("body = %v", body)
	}
	if body["updatedAt"] != "2026-08-28T12:00:00.000Z" {
		t.Errorf("updatedAt = %v, want fixed-layout UTC string", body["updatedAt"])
	}
}

func TestUserHandler_UpdateName_EmptyNameReturns400(t *testing.T) {
	svc := &mockUserService{
		updateNameFunc: func(ctx context.Context, id, name string) (string, time.Time, error) {
			return "", time.Time{}, model.NewValidationError("nameを指定してください。")
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/users/kakao-123", strings.NewReader(`{"name":""}`))
	req = withChiURLParam(req, "id", "kakao-123")
	rec := httptest.NewRecorder()
	h.UpdateName(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUserHandler_UpdateName_InvalidBodyReturns400(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodPut, "/api/users/kakao-123", strings.NewReader("{bad"))
	req = withChiURLParam(req, "id", "kakao-123")
	rec := httptest.NewRecorder()
	h.UpdateName(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUserHandler_Delete_Success(t *testing.T) {
	var deletedID string
	svc := &mockUserService{
		deleteFunc: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/users/kakao-123", nil), "id", "kakao-123")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if deletedID != "kakao-123" {
		t.Errorf("deleted id = %q, want kakao-123", deletedID)
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
}
