package model

import "time"

// User はOAuthログインで登録されたサービス利用ユーザーを表す。
// IDは外部IdPのsubject識別子をそのまま使用する（provider+アカウントごとに安定）。
type User struct {
	ID        string
	Provider  string // 識別子を発行したIdP（"kakao" 等）
	Name      string // プロフィール編集で変更可能
	Email     string // 初回登録時にIdPから取得。以後不変
	Picture   string // 初回登録時にIdPから取得。以後不変
	CreatedAt time.Time
	UpdatedAt time.Time // プロフィール編集のたびに更新
}

// ResolvedIdentity はOAuthダンスを完了済みのクライアントから渡される
// 解決済みのユーザー識別情報を表す。サーバー側での永続化のみが必要なケースで使う。
type ResolvedIdentity struct {
	ID       string
	Provider string
	Name     string
	Email    string
	Picture  string
}
