package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore は組み込みバリアント用のJSONスナップショットストア。
// 全データをメモリに保持し、変更のたびにファイル全体を同期的に書き直す。
// 書き込みバッチングもWALも行わない。これは低書き込み量の個人利用を前提にした
// 意図的なシンプルさと耐久性のトレードオフであり、ミューテックスで
// 単一ライターを明示的に保証する。
type FileStore struct {
	path string

	mu   sync.Mutex
	data storeData
}

// storeData はスナップショットファイルのルート構造。
type storeData struct {
	Todos []storedTodo `json:"todos"`
	Users []storedUser `json:"users"`
}

// storedTodo はファイル上のTodoレコード。
// createdAtはTimestampLayout形式の固定幅UTC文字列として保存するため、
// 文字列の辞書順比較がそのまま時系列比較になる。
type storedTodo struct {
	ID        int64  `json:"id"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// storedUser はファイル上のユーザーレコード。
type storedUser struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Picture   string `json:"picture"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// OpenFileStore は指定パスのスナップショットファイルを読み込んでFileStoreを生成する。
// ファイルが存在しない場合は空のストアとして開始する（初回書き込み時に作成される）。
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ストアファイルの読み込みに失敗しました: %w", err)
	}

	if err := json.Unmarshal(b, &s.data); err != nil {
		return nil, fmt.Errorf("ストアファイルの解析に失敗しました: %w", err)
	}

	return s, nil
}

// view は読み取り専用アクセスをロック下で実行する。
func (s *FileStore) view(fn func(d *storeData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// mutate は変更をロック下で実行し、成功した場合のみストア全体を
// 同期的にファイルへ書き出す。fnがエラーを返した場合は書き出さない。
func (s *FileStore) mutate(fn func(d *storeData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(&s.data); err != nil {
		return err
	}
	return s.persistLocked()
}

// persistLocked はストア全体をテンポラリファイル経由でアトミックに書き出す。
// 呼び出し側でmuを保持していること。
func (s *FileStore) persistLocked() error {
	b, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("ストアのシリアライズに失敗しました: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".todoman-*.tmp")
	if err != nil {
		return fmt.Errorf("テンポラリファイルの作成に失敗しました: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ストアの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ストアの同期に失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("テンポラリファイルのクローズに失敗しました: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ストアファイルの置き換えに失敗しました: %w", err)
	}
	return nil
}
