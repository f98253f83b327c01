// Package todo はTodo管理のドメインロジックを提供する。
package todo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
	"github.com/hitoshi/todoman/internal/security"
)

// dateLayout は期間指定クエリで受け付けるカレンダー日付の形式。
const dateLayout = "2006-01-02"

// MetricsRecorder はTodoサービスが発行するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordTodoCreated()
}

// Service はTodo管理のサービス層。
// 入力検証、ID発番、タイムスタンプ付与、ユーザースコープの強制を担う。
type Service struct {
	repo      repository.TodoRepository
	sanitizer security.TextSanitizerService
	metrics   MetricsRecorder // nilの場合は記録しない

	// ID発番はミリ秒時計由来だが、同一ミリ秒内の連続呼び出しでも
	// 重複しないようミューテックス下で単調増加を強制する。
	idMu   sync.Mutex
	lastID int64

	now func() time.Time // テスト用に差し替え可能
}

// NewService はServiceを生成する。
func NewService(repo repository.TodoRepository, sanitizer security.TextSanitizerService, metrics MetricsRecorder) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   metrics,
		now:       time.Now,
	}
}

// List はユーザーの全Todoをcreated_at降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Todo, error) {
	todos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Todo一覧の取得に失敗しました: %w", err)
	}
	return todos, nil
}

// ListRange は作成日がカレンダー日付の[startDate, endDate]（両端含む）に
// 入るTodoを返す。日付はYYYY-MM-DD形式で両方必須。UTCの
// [start 00:00:00.000, end 23:59:59.999] に展開してから比較する。
// startDate > endDate はサーバー側でも検証エラーとする。
func (s *Service) ListRange(ctx context.Context, userID, startDate, endDate string) ([]*model.Todo, error) {
	if startDate == "" || endDate == "" {
		return nil, model.NewValidationError("startDateとendDateの両方を指定してください。")
	}

	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("startDateの形式が不正です: %s", startDate))
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("endDateの形式が不正です: %s", endDate))
	}
	if start.After(end) {
		return nil, model.NewValidationError("startDateはendDate以前の日付を指定してください。")
	}

	// endは当日の23:59:59.999まで含める
	endOfDay := end.Add(24*time.Hour - time.Millisecond)

	todos, err := s.repo.ListByUserAndRange(ctx, userID, start, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("期間指定のTodo一覧取得に失敗しました: %w", err)
	}
	return todos, nil
}

// Add は新しいTodoを作成する。
// テキストは前後の空白を除去し、空になった場合は検証エラーを返す。
// completedはfalse、createdAtは現在時刻（UTC、ミリ秒精度）で初期化する。
func (s *Service) Add(ctx context.Context, userID, text string) (*model.Todo, error) {
	trimmed := strings.TrimSpace(s.sanitizer.Sanitize(text))
	if trimmed == "" {
		return nil, model.NewValidationError("textを指定してください。")
	}

	todo := &model.Todo{
		ID:        s.nextID(),
		UserID:    userID,
		Text:      trimmed,
		Completed: false,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Insert(ctx, todo); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordTodoCreated()
	}
	return todo, nil
}

// SetCompleted は指定Todoの完了状態を更新する。
// 対象が存在しない場合はTodo未検出エラーを返す（暗黙の成功にはしない）。
func (s *Service) SetCompleted(ctx context.Context, userID string, id int64, completed bool) error {
	found, err := s.repo.SetCompleted(ctx, userID, id, completed)
	if err != nil {
		return fmt.Errorf("Todoの更新に失敗しました: %w", err)
	}
	if !found {
		return model.NewTodoNotFoundError(id)
	}
	return nil
}

// Remove は指定Todoを削除する。存在しないIDの削除も成功として扱う（冪等）。
func (s *Service) Remove(ctx context.Context, userID string, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("Todoの削除に失敗しました: %w", err)
	}
	return nil
}

// nextID は現在時刻のミリ秒値を基に単調増加のIDを発番する。
// 同一ミリ秒内の連続呼び出しでは前回値+1を返すことで衝突を回避する。
func (s *Service) nextID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
