// Package user はユーザープロフィール管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// TodoDeleter はユーザー退会時のTodo一括削除インターフェース。
type TodoDeleter interface {
	DeleteByUser(ctx context.Context, userID string) error
}

// Service はユーザープロフィールのサービス層。
// 取得・表示名変更・退会（Todoのカスケード削除込み）を提供する。
type Service struct {
	userRepo    repository.UserRepository
	todoDeleter TodoDeleter

	now func() time.Time // テスト用に差し替え可能
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, todoDeleter TodoDeleter) *Service {
	return &Service{
		userRepo:    userRepo,
		todoDeleter: todoDeleter,
		now:         time.Now,
	}
}

// Get は指定IDのユーザーを返す。見つからない場合はユーザー未検出エラー。
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateName は表示名を変更し、updatedAtを更新する。
// 空白のみの名前は検証エラー。対象が存在しない場合はユーザー未検出エラー。
func (s *Service) UpdateName(ctx context.Context, id, name string) (string, time.Time, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", time.Time{}, model.NewValidationError("nameを指定してください。")
	}

	updatedAt := s.now().UTC().Truncate(time.Millisecond)
	found, err := s.userRepo.UpdateName(ctx, id, trimmed, updatedAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ユーザー名の更新に失敗しました: %w", err)
	}
	if !found {
		return "", time.Time{}, model.NewUserNotFoundError()
	}
	return trimmed, updatedAt, nil
}

// Delete はユーザーを退会させる。
// ユーザーのTodoを先にカスケード削除してからユーザーレコードを削除する。
// 存在しないユーザーの削除も成功として扱う（冪等）。
func (s *Service) Delete(ctx context.Context, id string) error {
	// 1. Todoをカスケード削除
	if err := s.todoDeleter.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("ユーザーのTodo削除に失敗しました: %w", err)
	}

	// 2. ユーザーを削除
	if err := s.userRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("user deleted", slog.String("user_id", id))
	return nil
}
