// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// TodoServiceInterface はTodoハンドラーが必要とするサービスインターフェース。
type TodoServiceInterface interface {
	List(ctx context.Context, userID string) ([]*model.Todo, error)
	ListRange(ctx context.Context, userID, startDate, endDate string) ([]*model.Todo, error)
	Add(ctx context.Context, userID, text string) (*model.Todo, error)
	SetCompleted(ctx context.Context, userID string, id int64, completed bool) error
	Remove(ctx context.Context, userID string, id int64) error
}

// TodoHandler はTodo管理のHTTPハンドラー。
type TodoHandler struct {
	service TodoServiceInterface
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(service TodoServiceInterface) *TodoHandler {
	return &TodoHandler{service: service}
}

// --- リクエスト/レスポンス型 ---

// todoResponse はTodo1件のワイヤ表現。
// フィールド名は安定したワイヤ契約: id(整数), text, completed, createdAt(ISO-8601)。
type todoResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// createTodoRequest はTodo作成リクエストのボディ。
type createTodoRequest struct {
	Text string `json:"text"`
}

// updateTodoRequest はTodo更新リクエストのボディ。
// completedはJSONの任意の型を受け、truthy値をboolに正規化する。
type updateTodoRequest struct {
	Completed any `json:"completed"`
}

// successResponse は更新・削除系エンドポイントの成功レスポンス。
type successResponse struct {
	Success bool `json:"success"`
}

// List はユーザーの全Todoを返す。
// GET /api/todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	todos, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponses(todos))
}

// ListRange は作成日が指定期間内のTodoを返す。
// GET /api/todos/range?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *TodoHandler) ListRange(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	todos, err := h.service.ListRange(r.Context(), userID, startDate, endDate)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponses(todos))
}

// Create は新しいTodoを作成する。
// POST /api/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました。"))
		return
	}

	todo, err := h.service.Add(r.Context(), userID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTodoResponse(todo))
}

// UpdateCompleted はTodoの完了状態を更新する。
// PATCH /api/todos/{id}
func (h *TodoHandler) UpdateCompleted(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id, err := todoIDFromURL(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("idは整数で指定してください。"))
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました。"))
		return
	}

	if err := h.service.SetCompleted(r.Context(), userID, id, coerceBool(req.Completed)); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Delete はTodoを削除する。存在しないIDでも成功を返す（冪等）。
// DELETE /api/todos/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id, err := todoIDFromURL(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("idは整数で指定してください。"))
		return
	}

	if err := h.service.Remove(r.Context(), userID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// --- ヘルパー関数 ---

// todoIDFromURL はパスパラメータからTodoのIDを取り出す。
func todoIDFromURL(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// coerceBool はJSONの任意の値をtruthy判定でboolに正規化する。
func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != "" && val != "false" && val != "0"
	default:
		return false
	}
}

// toTodoResponse はmodel.TodoからAPIレスポンスに変換する。
func toTodoResponse(todo *model.Todo) todoResponse {
	return todoResponse{
		ID:        todo.ID,
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedAt: model.FormatTimestamp(todo.CreatedAt),
	}
}

// toTodoResponses は一覧レスポンスに変換する。結果が空でも空配列を返す（nullにしない）。
func toTodoResponses(todos []*model.Todo) []todoResponse {
	responses := make([]todoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toTodoResponse(todo))
	}
	return responses
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// apiErrorResponse は統一エラーフォーマットのワイヤ表現。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外のエラーは詳細をログのみに記録し、クライアントには一般的なメッセージを返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     model.ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeTodoNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeTodoConflict:
		return http.StatusConflict
	case model.ErrCodeOAuthExchangeFailed:
		// IdP側の失敗はクライアント起因（不正・期限切れコード）として扱う
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
