package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, todo, user, upstream, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeTodoNotFound        = "TODO_NOT_FOUND"
	ErrCodeTodoConflict        = "TODO_CONFLICT"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeOAuthExchangeFailed = "OAUTH_EXCHANGE_FAILED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  message,
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewUnauthorizedError は認証必須エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewTodoNotFoundError はTodo未検出エラーを生成する。
func NewTodoNotFoundError(todoID int64) *APIError {
	return &APIError{
		Code:     ErrCodeTodoNotFound,
		Message:  fmt.Sprintf("指定されたTodoが見つかりません: %d", todoID),
		Category: "todo",
		Action:   "TodoのIDを確認してください。",
	}
}

// NewTodoConflictError は同一スコープ内でのID重複エラーを生成する。
// ID発番が単調増加である限り発生しないはずだが、契約として検出する。
func NewTodoConflictError(todoID int64) *APIError {
	return &APIError{
		Code:     ErrCodeTodoConflict,
		Message:  fmt.Sprintf("同じIDのTodoが既に存在します: %d", todoID),
		Category: "todo",
		Action:   "再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "user",
		Action:   "ログインし直してください。",
	}
}

// NewOAuthExchangeFailedError はIdPとのトークン交換失敗エラーを生成する。
// detailにはIdPが返したエラー内容をそのまま含める。
func NewOAuthExchangeFailedError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeOAuthExchangeFailed,
		Message:  fmt.Sprintf("認可コードの交換に失敗しました: %s", detail),
		Category: "upstream",
		Action:   "ログインをやり直してください。",
	}
}
