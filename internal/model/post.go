package model

import "time"

// Post はブログ記事を表す。
// AuthorIDは作成時に認証済みユーザーのIDから設定され、以後変更されない。
// 記事単体の削除操作は存在せず、投稿者の退会時にのみカスケード削除される。
type Post struct {
	ID        string
	AuthorID  string
	Title     string
	Content   string
	CreatedAt time.Time
}

// PostWithAuthor は記事と投稿者の表示名を結合した読み取り専用モデル。
// 一覧表示用にリポジトリ層でJOINして完全にマテリアライズする
// （遅延ロードによるN+1クエリを避ける）。
type PostWithAuthor struct {
	Post
	AuthorFirstName string
	AuthorLastName  string
}

// AuthorName は投稿者のフルネームを返す。
func (p PostWithAuthor) AuthorName() string {
	return p.AuthorFirstName + " " + p.AuthorLastName
}
