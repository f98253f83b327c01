// Package model はドメインモデルを定義する。
package model

import "time"

// TimestampLayout はTodoのcreatedAtに使用する固定幅のISO-8601形式。
// UTC正規化済みのためこの形式同士の比較は辞書順で時系列順と一致する。
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Todo はユーザーが登録した1件のやることを表す。
// ユーザースコープ（UserID）ごとに完全に分離され、共有されることはない。
type Todo struct {
	ID        int64  // スコープ内で一意。ミリ秒時計由来の単調増加ID
	UserID    string // パーティションキー（外部IdPのユーザーID）
	Text      string
	Completed bool
	CreatedAt time.Time // 作成時に1回だけ設定。以後不変
}

// FormatTimestamp はtをTimestampLayout形式のUTC文字列に変換する。
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp はTimestampLayout形式の文字列をUTCのtime.Timeに変換する。
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
