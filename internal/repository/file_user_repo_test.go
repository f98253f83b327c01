package repository

import (
	"context"
	"testing"

	"github.com/hitoshi/todoman/internal/model"
)

func newTestUser(t *testing.T, id string) *model.User {
	t.Helper()
	ts := mustTime(t, "2026-08-01T09:00:00.000Z")
	return &model.User{
		ID:        id,
		Provider:  "kakao",
		Name:      "テストユーザー",
		Email:     "test@example.com",
		Picture:   "https://example.com/pic.png",
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestFileUserRepo_UpsertCreatesNewUser(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewFileUserRepo(store)
	ctx := context.Background()

	created, result, err := repo.Upsert(ctx, newTestUser(t, "kakao-1"))
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !created {
		t.Error("created = false, want true for new user")
	}
	if result.ID != "kakao-1" {
		t.Errorf("result.ID = %q, want %q", result.ID, "kakao-1")
	}
}

func TestFileUserRepo_UpsertIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewFileUserRepo(store)
	ctx := context.Background()

	first := newTestUser(t, "kakao-1")
	repo.Upsert(ctx, first)

	// 同じIDで別プロフィールを流し込んでも既存レコードは上書きされない
	second := newTestUser(t, "kakao-1")
	second.Name = "新しい名前"
	second.CreatedAt = mustTime(t, "2026-08-15T12:00:00.000Z")

	created, result, err := repo.Upsert(ctx, second)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if created {
		t.Error("created = true, want false for existing user")
	}
	if result.Name != "テストユーザー" {
		t.Errorf("Name = %q, want original %q", result.Name, "テストユーザー")
	}
	if !result.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt = %v, want original %v", result.CreatedAt, first.CreatedAt)
	}
}

func TestFileUserRepo_FindByID_MissingReturnsNil(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewFileUserRepo(store)

	user, err := repo.FindByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
}

func TestFileUserRepo_UpdateName(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewFileUserRepo(store)
	ctx := context.Background()

	repo.Upsert(ctx, newTestUser(t, "kakao-1"))

	updatedAt := mustTime(t, "2026-08-20T10:00:00.000Z")
	found, err := repo.UpdateName(ctx, "kakao-1", "改名後", updatedAt)
	if err != nil {
		t.Fatalf("UpdateName() error = %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}

	user, _ := repo.FindByID(ctx, "kakao-1")
	if user.Name != "改名後" {
		t.Errorf("Name = %q, want %q", user.Name, "改名後")
	}
	if !user.UpdatedAt.Equal(updatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", user.UpdatedAt, updatedAt)
	}
}

func TestFileUserRepo_UpdateName_MissingReturnsFalse(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewFileUserRepo(store)

	found, err := repo.UpdateName(context.Background(), "nope", "x", mustTime(t, "2026-08-20T10:00:00.000Z"))
	if err != nil {
		t.Fatalf("UpdateName() error = %v", err)
	}
	if found {
		t.Error("found = true, want false for missing user")
	}
}

func TestFileUserRepo_DeleteByID_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewFileUserRepo(store)
	ctx := context.Background()

	repo.Upsert(ctx, newTestUser(t, "kakao-1"))

	if err := repo.DeleteByID(ctx, "kakao-1"); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}
	if err := repo.DeleteByID(ctx, "kakao-1"); err != nil {
		t.Errorf("DeleteByID() second call error = %v, want nil", err)
	}

	user, _ := repo.FindByID(ctx, "kakao-1")
	if user != nil {
		t.Errorf("user = %+v, want nil after delete", user)
	}
}

func TestFileUserRepo_SurvivesReopen(t *testing.T) {
	store, path := newTestStore(t)
	repo := NewFileUserRepo(store)
	ctx := context.Background()

	repo.Upsert(ctx, newTestUser(t, "kakao-1"))

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore() reopen error = %v", err)
	}
	user, err := NewFileUserRepo(reopened).FindByID(ctx, "kakao-1")
	if err != nil {
		t.Fatalf("FindByID() after reopen error = %v", err)
	}
	if user == nil {
		t.Fatal("user = nil, want persisted record")
	}
	if user.Provider != "kakao" || user.Email != "test@example.com" {
		t.Errorf("reopened user = %+v", user)
	}
}
