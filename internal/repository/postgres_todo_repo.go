package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したTodoリポジトリ。
type PostgresTodoRepo struct {
	db *sql.DB
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(db *sql.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

// ListByUser はユーザーの全Todoをcreated_at降順（同時刻はid降順）で返す。
func (r *PostgresTodoRepo) ListByUser(ctx context.Context, userID string) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, text, completed, created_at
		 FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("Todo一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanTodos(rows)
}

// ListByUserAndRange は作成日時が[start, end]（両端含む）のTodoをcreated_at降順で返す。
func (r *PostgresTodoRepo) ListByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, text, completed, created_at
		 FROM todos
		 WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		 ORDER BY created_at DESC, id DESC`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("期間指定のTodo一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanTodos(rows)
}

// Insert はTodoを作成する。(user_id, id) の主キー衝突はAPIErrorに変換する。
func (r *PostgresTodoRepo) Insert(ctx context.Context, todo *model.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, user_id, text, completed, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		todo.ID, todo.UserID, todo.Text, todo.Completed, todo.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return model.NewTodoConflictError(todo.ID)
		}
		return fmt.Errorf("Todoの作成に失敗しました: %w", err)
	}
	return nil
}

// SetCompleted は指定Todoの完了状態を更新する。対象が存在した場合はtrueを返す。
func (r *PostgresTodoRepo) SetCompleted(ctx context.Context, userID string, id int64, completed bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET completed = $3 WHERE user_id = $1 AND id = $2`,
		userID, id, completed,
	)
	if err != nil {
		return false, fmt.Errorf("Todoの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// Delete は指定Todoを削除する。存在しないIDの削除は冪等に成功する。
func (r *PostgresTodoRepo) Delete(ctx context.Context, userID string, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("Todoの削除に失敗しました: %w", err)
	}
	return nil
}

// DeleteByUser はユーザーの全Todoを削除する。
func (r *PostgresTodoRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーのTodo一括削除に失敗しました: %w", err)
	}
	return nil
}

// scanTodos は結果セットをTodoスライスに変換する。
func scanTodos(rows *sql.Rows) ([]*model.Todo, error) {
	var todos []*model.Todo
	for rows.Next() {
		todo := &model.Todo{}
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Text, &todo.Completed, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("Todo行の読み取りに失敗しました: %w", err)
		}
		todo.CreatedAt = todo.CreatedAt.UTC()
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Todo一覧の走査に失敗しました: %w", err)
	}
	return todos, nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)
