package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBが満たす。組み込みストアのバリアントではnilでよい。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 観測
	HealthChecker HealthChecker       // nil可（DBなしのバリアント）
	Metrics       *metrics.Collector  // nil可
	Gatherer      prometheus.Gatherer // nil可。/metricsの公開に使う

	// サービス
	TodoService TodoServiceInterface
	AuthService AuthServiceInterface
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery -> RequestID -> SecurityHeaders -> CORS -> Logging -> Metrics
//
// /api/todos 配下はさらに Identity → RateLimit(General)、
// 認証・登録エンドポイントは RateLimit(Auth) を通る。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	todoHandler := NewTodoHandler(deps.TodoService)
	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 観測用ルート ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証不要のルート（IP単位のレート制限） ---

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.AuthMiddleware())
		}
		r.Post("/api/auth/kakao", authHandler.KakaoLogin)
		r.Post("/api/users/register", authHandler.Register)
	})

	// ユーザープロフィール管理
	r.Route("/api/users/{id}", func(r chi.Router) {
		r.Get("/", userHandler.Get)
		r.Put("/", userHandler.UpdateName)
		r.Delete("/", userHandler.Delete)
	})

	// --- アイデンティティが必要なルート ---
	// ミドルウェアスタック: Identity → RateLimit(General)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentityMiddleware())
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Route("/api/todos", func(r chi.Router) {
			r.Get("/", todoHandler.List)
			r.Get("/range", todoHandler.ListRange)
			r.Post("/", todoHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", todoHandler.UpdateCompleted)
				r.Delete("/", todoHandler.Delete)
			})
		})
	})

	return r
}

// newHealthHandler はヘルスチェックハンドラーを生成する。
// checkerが指定されている場合はストレージへの到達性も確認する。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
