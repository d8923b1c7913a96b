// Package account はアカウントライフサイクル（登録・ログイン・ログアウト・
// プロフィール更新・退会）のドメインロジックを提供する。
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/blogman/internal/form"
	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
)

// PasswordHasher はパスワードのハッシュ化と検証のインターフェース。
// password.Hasherの部分集合として定義する。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
	DummyVerify(plaintext string)
}

// SessionManager はセッションの発行・失効のインターフェース。
// session.Managerの部分集合として定義する。
type SessionManager interface {
	Create(ctx context.Context, userID string, remember bool) (*model.Session, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// Service はアカウントライフサイクルのビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	sessions SessionManager
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher PasswordHasher, sessions SessionManager) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
	}
}

// Register は新規ユーザーを登録する。
// パスワードをハッシュ化してからユーザーを作成する。
// メールアドレスが既に存在する場合はDuplicateEmailのAppErrorを返し、
// 既存ユーザーには影響しない。
// 登録成功時に自動ログインは行わない（ハンドラー側で記事作成ページへ誘導する）。
func (s *Service) Register(ctx context.Context, f form.RegisterForm) (*model.User, error) {
	hash, err := s.hasher.Hash(f.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        f.Email,
		PasswordHash: hash,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// DuplicateEmailはそのまま呼び出し側に返す
		return nil, err
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Login はメールアドレスとパスワードで認証し、セッションを発行する。
// メールアドレス未登録とパスワード不一致はどちらもInvalidCredentialsとなり、
// どちらの検査で失敗したかは応答からもタイミングからも判別できない
// （未登録時はダミーのbcrypt比較を実行して処理時間を揃える）。
func (s *Service) Login(ctx context.Context, f form.LoginForm) (*model.Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, f.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		s.hasher.DummyVerify(f.Password)
		return nil, model.NewInvalidCredentialsError()
	}

	ok, err := s.hasher.Verify(f.Password, user.PasswordHash)
	if err != nil {
		// CorruptCredential: データ整合性の障害。ログに残して失敗させる。
		slog.Error("password hash verification failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if !ok {
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.sessions.Create(ctx, user.ID, f.Remember)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.Bool("remember", f.Remember),
	)

	return session, nil
}

// Logout は現在のセッションを失効させる。
// アクティブなセッションがない場合も成功する（冪等）。
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// UpdateProfile はfirst_name、last_name、emailを更新する。
// メールアドレスが他ユーザーと重複する場合はDuplicateEmailを返し、
// 部分的な変更はコミットされない。
func (s *Service) UpdateProfile(ctx context.Context, userID string, f form.AccountForm) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	user.FirstName = f.FirstName
	user.LastName = f.LastName
	user.Email = f.Email

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("profile updated",
		slog.String("user_id", userID),
	)

	return user, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: 記事 → ユーザー（単一トランザクション）、その後に全セッションを失効。
// 退会後は手元に残ったトークンも解決されなくなる。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. 記事とユーザーを同一トランザクションで削除
	if err := s.userRepo.DeleteCascade(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user with posts: %w", err)
	}

	// 2. 残存セッションを全て失効
	if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}
