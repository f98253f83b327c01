// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// TodoRepository はTodoデータの永続化インターフェース。
// すべての操作はユーザースコープ（userID）で分離される。
type TodoRepository interface {
	// ListByUser はユーザーの全Todoをcreated_at降順（同時刻はid降順）で返す。
	ListByUser(ctx context.Context, userID string) ([]*model.Todo, error)

	// ListByUserAndRange は作成日時が[start, end]（両端含む）のTodoを
	// created_at降順で返す。境界はUTCで比較する。
	ListByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Todo, error)

	// Insert はTodoを作成する。同一スコープ内でIDが重複する場合は
	// model.ErrCodeTodoConflict のAPIErrorを返す。
	Insert(ctx context.Context, todo *model.Todo) error

	// SetCompleted は指定Todoの完了状態を更新する。
	// 対象が存在した場合はtrueを返す。存在しない場合はfalse（エラーではない）。
	SetCompleted(ctx context.Context, userID string, id int64, completed bool) (bool, error)

	// Delete は指定Todoを削除する。存在しないIDの削除はエラーにならない（冪等）。
	Delete(ctx context.Context, userID string, id int64) error

	// DeleteByUser はユーザーの全Todoを削除する。退会時のカスケード削除に使う。
	DeleteByUser(ctx context.Context, userID string) error
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Upsert はユーザーをアトミックに「存在しなければ作成」する。
	// 既存レコードがある場合は一切上書きせず、そのレコードを返す。
	// createdは新規作成された場合のみtrue。
	Upsert(ctx context.Context, user *model.User) (created bool, result *model.User, err error)

	// UpdateName は表示名とupdated_atを更新する。
	// 対象が存在した場合はtrueを返す。
	UpdateName(ctx context.Context, id, name string, updatedAt time.Time) (bool, error)

	// DeleteByID は指定IDのユーザーを削除する。存在しないIDの削除は冪等に成功する。
	DeleteByID(ctx context.Context, id string) error
}
