// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/blogman/internal/model"
)

// UserRepository はユーザーデータ（認証情報ストア）の永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はDuplicateEmailのAppErrorを返す。
	// 同時登録の競合はDBの一意制約で直列化され、必ず一方だけが成功する。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Update はfirst_name、last_name、emailを更新する。
	// メールアドレスの一意性を再検証し、違反時はDuplicateEmailのAppErrorを返す。
	// エラー時に部分的な変更が残ることはない。
	Update(ctx context.Context, user *model.User) error

	// DeleteCascade はユーザーの全記事を削除した後にユーザー本体を削除する。
	// 単一トランザクションで実行され、部分削除の状態は外部から観測されない。
	DeleteCascade(ctx context.Context, userID string) error
}

// PostRepository は記事データの永続化インターフェース。
type PostRepository interface {
	// Create は記事を作成する。AuthorIDは呼び出し側で認証済みIDから設定済みであること。
	Create(ctx context.Context, post *model.Post) error

	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// ListAll は全記事を投稿者名付きで新しい順に返す。
	// 投稿者情報はJOINで完全にマテリアライズする（遅延ロードしない）。
	ListAll(ctx context.Context) ([]model.PostWithAuthor, error)

	// CountByAuthor は指定ユーザーの記事数を返す。
	CountByAuthor(ctx context.Context, authorID string) (int, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。
	// 期限切れ・失効済み（削除済み）の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// DeleteByID は指定IDのセッションを削除する。
	// 冪等であり、存在しないIDを指定してもエラーにならない。
	DeleteByID(ctx context.Context, id string) error

	// DeleteByUserID は指定ユーザーの全セッションを削除する。退会処理で使用する。
	DeleteByUserID(ctx context.Context, userID string) error
}
