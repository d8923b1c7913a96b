// Package model はドメインモデルを定義する。
package model

import "time"

// User はブログの登録ユーザーを表す。
// PasswordHashはbcryptハッシュであり、平文パスワードは一切保持しない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName は投稿者表示用のフルネームを返す。
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Session はユーザーのログインセッションを表す。
// IDは推測不可能な不透明トークンで、HTTP Only Cookieとしてクライアントに渡される。
// Rememberが真の場合は長期セッション（ブラウザ再起動後も有効）となる。
//
// 状態遷移: Active → Expired（時間経過） または Active → Revoked（ログアウト・退会）。
// ExpiredとRevokedは外部からは区別できず、どちらも以後の解決でAnonymousになる。
// Revokedはsessions行のDELETEで表現するため、専用のカラムは持たない。
type Session struct {
	ID        string
	UserID    string
	Remember  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
