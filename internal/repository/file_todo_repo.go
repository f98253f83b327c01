package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

// FileTodoRepo はFileStoreを使用したTodoリポジトリ。
type FileTodoRepo struct {
	store *FileStore
}

// NewFileTodoRepo はFileTodoRepoを生成する。
func NewFileTodoRepo(store *FileStore) *FileTodoRepo {
	return &FileTodoRepo{store: store}
}

// ListByUser はユーザーの全Todoをcreated_at降順（同時刻はid降順）で返す。
func (r *FileTodoRepo) ListByUser(ctx context.Context, userID string) ([]*model.Todo, error) {
	var todos []*model.Todo
	var convErr error
	r.store.view(func(d *storeData) {
		for _, st := range d.Todos {
			if st.UserID != userID {
				continue
			}
			todo, err := toModelTodo(st)
			if err != nil {
				convErr = err
				return
			}
			todos = append(todos, todo)
		}
	})
	if convErr != nil {
		return nil, convErr
	}

	sortTodosDesc(todos)
	return todos, nil
}

// ListByUserAndRange は作成日時が[start, end]（両端含む）のTodoをcreated_at降順で返す。
// 保存形式が固定幅のUTC文字列のため、比較は辞書順で行う。
func (r *FileTodoRepo) ListByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Todo, error) {
	startStr := model.FormatTimestamp(start)
	endStr := model.FormatTimestamp(end)

	var todos []*model.Todo
	var convErr error
	r.store.view(func(d *storeData) {
		for _, st := range d.Todos {
			if st.UserID != userID {
				continue
			}
			if st.CreatedAt < startStr || st.CreatedAt > endStr {
				continue
			}
			todo, err := toModelTodo(st)
			if err != nil {
				convErr = err
				return
			}
			todos = append(todos, todo)
		}
	})
	if convErr != nil {
		return nil, convErr
	}

	sortTodosDesc(todos)
	return todos, nil
}

// Insert はTodoを作成する。同一スコープ内のID重複はAPIErrorを返す。
func (r *FileTodoRepo) Insert(ctx context.Context, todo *model.Todo) error {
	return r.store.mutate(func(d *storeData) error {
		for _, st := range d.Todos {
			if st.UserID == todo.UserID && st.ID == todo.ID {
				return model.NewTodoConflictError(todo.ID)
			}
		}
		d.Todos = append(d.Todos, storedTodo{
			ID:        todo.ID,
			UserID:    todo.UserID,
			Text:      todo.Text,
			Completed: todo.Completed,
			CreatedAt: model.FormatTimestamp(todo.CreatedAt),
		})
		return nil
	})
}

// SetCompleted は指定Todoの完了状態を更新する。対象が存在した場合はtrueを返す。
func (r *FileTodoRepo) SetCompleted(ctx context.Context, userID string, id int64, completed bool) (bool, error) {
	found := false
	err := r.store.mutate(func(d *storeData) error {
		for i := range d.Todos {
			if d.Todos[i].UserID == userID && d.Todos[i].ID == id {
				d.Todos[i].Completed = completed
				found = true
				return nil
			}
		}
		// 対象なしの場合は書き出し不要だがmutate契約上エラーではない
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Delete は指定Todoを削除する。存在しないIDの削除は冪等に成功する。
func (r *FileTodoRepo) Delete(ctx context.Context, userID string, id int64) error {
	return r.store.mutate(func(d *storeData) error {
		for i := range d.Todos {
			if d.Todos[i].UserID == userID && d.Todos[i].ID == id {
				d.Todos = append(d.Todos[:i], d.Todos[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// DeleteByUser はユーザーの全Todoを削除する。
func (r *FileTodoRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.store.mutate(func(d *storeData) error {
		kept := d.Todos[:0]
		for _, st := range d.Todos {
			if st.UserID != userID {
				kept = append(kept, st)
			}
		}
		d.Todos = kept
		return nil
	})
}

// toModelTodo はファイル上のレコードをドメインモデルに変換する。
func toModelTodo(st storedTodo) (*model.Todo, error) {
	createdAt, err := model.ParseTimestamp(st.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ストア内のcreatedAtが不正です（id=%d）: %w", st.ID, err)
	}
	return &model.Todo{
		ID:        st.ID,
		UserID:    st.UserID,
		Text:      st.Text,
		Completed: st.Completed,
		CreatedAt: createdAt,
	}, nil
}

// sortTodosDesc はcreated_at降順（同時刻はid降順）に並べ替える。
func sortTodosDesc(todos []*model.Todo) {
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
}

// compile-time interface check
var _ TodoRepository = (*FileTodoRepo)(nil)
