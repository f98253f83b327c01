package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, provider, name, email, picture, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Provider, &user.Name, &user.Email, &user.Picture, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}

// Upsert はユーザーをアトミックに「存在しなければ作成」する。
// ON CONFLICT DO NOTHING により既存レコードは一切上書きされない
// （read-then-writeの競合ではなくストレージエンジンの条件付き書き込みに委譲する）。
func (r *PostgresUserRepo) Upsert(ctx context.Context, user *model.User) (bool, *model.User, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, provider, name, email, picture, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		user.ID, user.Provider, user.Name, user.Email, user.Picture, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return false, nil, fmt.Errorf("ユーザーのUPSERTに失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return true, user, nil
	}

	// 挿入されなかった場合は既存レコードを返す
	existing, err := r.FindByID(ctx, user.ID)
	if err != nil {
		return false, nil, err
	}
	if existing == nil {
		// 挿入もされず既存も見つからないのは同時削除とレースした場合のみ
		return false, nil, fmt.Errorf("upsert race: user %s disappeared", user.ID)
	}
	return false, existing, nil
}

// UpdateName は表示名とupdated_atを更新する。対象が存在した場合はtrueを返す。
func (r *PostgresUserRepo) UpdateName(ctx context.Context, id, name string, updatedAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $2, updated_at = $3 WHERE id = $1`,
		id, name, updatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("ユーザー名の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByID は指定IDのユーザーを削除する。存在しないIDの削除は冪等に成功する。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
