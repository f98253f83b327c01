package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeaderName はレスポンスに付与するリクエストIDヘッダー。
const requestIDHeaderName = "X-Request-Id"

// requestIDContextKey はリクエストコンテキストにリクエストIDを格納するためのキー。
var requestIDContextKey = contextKey("request_id")

// NewRequestIDMiddleware はリクエストごとにUUIDを発番し、
// コンテキストとレスポンスヘッダーに付与するミドルウェアを返す。
// クライアントが既にX-Request-Idを送っている場合はその値を引き継ぐ。
func NewRequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeaderName)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(requestIDHeaderName, requestID)
			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext はリクエストコンテキストからリクエストIDを取得する。
// 未設定の場合は空文字列を返す。
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
