// Package auth はOAuth認証フローとユーザー登録のUPSERTを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Provider       string // "kakao" 等
	Name           string
	Email          string
	Picture        string
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdPに対応するための抽象化。
type OAuthProvider interface {
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	// redirectURIは認可リクエスト時と同じ値を渡す必要がある。
	ExchangeCode(ctx context.Context, code, redirectURI string) (*OAuthUserInfo, error)
}

// MetricsRecorder は認証サービスが発行するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordOAuthExchange(success bool)
}

// RegistrationResult はUPSERTの結果を表す。
// IsNewは今回の呼び出しで新規作成された場合のみtrue。
type RegistrationResult struct {
	IsNew bool
	User  *model.User
}

// Service は認証・ユーザー登録に関するビジネスロジックを提供する。
type Service struct {
	provider OAuthProvider
	userRepo repository.UserRepository
	metrics  MetricsRecorder // nilの場合は記録しない

	now func() time.Time // テスト用に差し替え可能
}

// NewService はServiceを生成する。
func NewService(provider OAuthProvider, userRepo repository.UserRepository, metrics MetricsRecorder) *Service {
	return &Service{
		provider: provider,
		userRepo: userRepo,
		metrics:  metrics,
		now:      time.Now,
	}
}

// LoginWithKakao はKakaoの認可コードを交換してプロフィールを取得し、
// 内部ユーザーレコードへUPSERTする。
// IdPエラーはリトライせず即座に呼び出し元へ返す。
func (s *Service) LoginWithKakao(ctx context.Context, code, redirectURI string) (*RegistrationResult, error) {
	if code == "" {
		return nil, model.NewValidationError("codeを指定してください。")
	}

	info, err := s.provider.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordOAuthExchange(false)
		}
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordOAuthExchange(true)
	}

	return s.Register(ctx, &model.ResolvedIdentity{
		ID:       info.ProviderUserID,
		Provider: info.Provider,
		Name:     info.Name,
		Email:    info.Email,
		Picture:  info.Picture,
	})
}

// Register は解決済みのユーザー識別情報をUPSERTする。
// ブラウザクライアント側でOAuthダンスを完了済みのケースの登録口でもある。
// 冪等: 同じIDで再度呼び出しても既存レコードをそのまま返し、上書きしない。
func (s *Service) Register(ctx context.Context, identity *model.ResolvedIdentity) (*RegistrationResult, error) {
	if identity.ID == "" || identity.Provider == "" {
		return nil, model.NewValidationError("idとproviderを指定してください。")
	}

	name := identity.Name
	if name == "" {
		name = defaultDisplayName
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	candidate := &model.User{
		ID:        identity.ID,
		Provider:  identity.Provider,
		Name:      name,
		Email:     identity.Email,
		Picture:   identity.Picture,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, user, err := s.userRepo.Upsert(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("ユーザーのUPSERTに失敗しました: %w", err)
	}

	if created {
		slog.Info("new user registered",
			slog.String("user_id", user.ID),
			slog.String("provider", user.Provider),
		)
	} else {
		slog.Info("existing user logged in",
			slog.String("user_id", user.ID),
			slog.String("provider", user.Provider),
		)
	}

	return &RegistrationResult{IsNew: created, User: user}, nil
}
