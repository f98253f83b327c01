package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/todoman/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Get は指定IDのユーザーを返す。
	Get(ctx context.Context, id string) (*model.User, error)
	// UpdateName は表示名を変更し、確定した名前と更新時刻を返す。
	UpdateName(ctx context.Context, id, name string) (string, time.Time, error)
	// Delete はユーザーと関連Todoを削除する。
	Delete(ctx context.Context, id string) error
}

// UserHandler はユーザープロフィール管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// --- リクエスト/レスポンス型 ---

// updateNameRequest はプロフィール編集リクエストのボディ。
type updateNameRequest struct {
	Name string `json:"name"`
}

// updateNameResponse はプロフィール編集の成功レスポンス。
type updateNameResponse struct {
	Success   bool   `json:"success"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updatedAt"`
}

// Get はユーザープロフィールを返す。
// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateName は表示名を変更する。
// PUT /api/users/{id}
func (h *UserHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました。"))
		return
	}

	name, updatedAt, err := h.service.UpdateName(r.Context(), id, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateNameResponse{
		Success:   true,
		Name:      name,
		UpdatedAt: model.FormatTimestamp(updatedAt),
	})
}

// Delete はユーザーを退会させる。関連Todoもカスケード削除される。
// 存在しないユーザーでも成功を返す（冪等）。
// DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
