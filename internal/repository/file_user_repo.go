package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// FileUserRepo はFileStoreを使用したユーザーリポジトリ。
// UPSERTのアトミック性はストア全体のミューテックスで保証される。
type FileUserRepo struct {
	store *FileStore
}

// NewFileUserRepo はFileUserRepoを生成する。
func NewFileUserRepo(store *FileStore) *FileUserRepo {
	return &FileUserRepo{store: store}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *FileUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user *model.User
	var convErr error
	r.store.view(func(d *storeData) {
		for _, su := range d.Users {
			if su.ID == id {
				user, convErr = toModelUser(su)
				return
			}
		}
	})
	if convErr != nil {
		return nil, convErr
	}
	return user, nil
}

// Upsert はユーザーをロック下でcheck-then-setし、存在しなければ作成する。
// 既存レコードは一切上書きしない。
func (r *FileUserRepo) Upsert(ctx context.Context, user *model.User) (bool, *model.User, error) {
	var created bool
	var result *model.User
	var convErr error

	err := r.store.mutate(func(d *storeData) error {
		for _, su := range d.Users {
			if su.ID == user.ID {
				result, convErr = toModelUser(su)
				return convErr
			}
		}
		d.Users = append(d.Users, storedUser{
			ID:        user.ID,
			Provider:  user.Provider,
			Name:      user.Name,
			Email:     user.Email,
			Picture:   user.Picture,
			CreatedAt: model.FormatTimestamp(user.CreatedAt),
			UpdatedAt: model.FormatTimestamp(user.UpdatedAt),
		})
		created = true
		result = user
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return created, result, nil
}

// UpdateName は表示名とupdatedAtを更新する。対象が存在した場合はtrueを返す。
func (r *FileUserRepo) UpdateName(ctx context.Context, id, name string, updatedAt time.Time) (bool, error) {
	found := false
	err := r.store.mutate(func(d *storeData) error {
		for i := range d.Users {
			if d.Users[i].ID == id {
				d.Users[i].Name = name
				d.Users[i].UpdatedAt = model.FormatTimestamp(updatedAt)
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// DeleteByID は指定IDのユーザーを削除する。存在しないIDの削除は冪等に成功する。
func (r *FileUserRepo) DeleteByID(ctx context.Context, id string) error {
	return r.store.mutate(func(d *storeData) error {
		for i := range d.Users {
			if d.Users[i].ID == id {
				d.Users = append(d.Users[:i], d.Users[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// toModelUser はファイル上のレコードをドメインモデルに変換する。
func toModelUser(su storedUser) (*model.User, error) {
	createdAt, err := model.ParseTimestamp(su.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ストア内のcreatedAtが不正です（user=%s）: %w", su.ID, err)
	}
	updatedAt, err := model.ParseTimestamp(su.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ストア内のupdatedAtが不正です（user=%s）: %w", su.ID, err)
	}
	return &model.User{
		ID:        su.ID,
		Provider:  su.Provider,
		Name:      su.Name,
		Email:     su.Email,
		Picture:   su.Picture,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// compile-time interface check
var _ UserRepository = (*FileUserRepo)(nil)
