// Package session はセッションの発行・解決・失効を提供する。
//
// セッショントークンはcrypto/randによる32バイトの乱数を16進数エンコードした
// 不透明文字列で、サーバー側（sessionsテーブル）でユーザーIDと紐付けて管理する。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
)

// ManagerConfig はセッション管理の設定。
type ManagerConfig struct {
	MaxAge         time.Duration // 通常セッションの有効期間
	RememberMaxAge time.Duration // remember指定時の有効期間
}

// Manager はセッションのライフサイクルを管理する。
// 解決（Resolve）は「セッションなし」を正常系として扱い、
// 欠落・期限切れ・失効・改竄トークンのいずれもエラーにせずAnonymous（nil）を返す。
type Manager struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	config      ManagerConfig
}

// NewManager はManagerを生成する。
func NewManager(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, config ManagerConfig) *Manager {
	return &Manager{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		config:      config,
	}
}

// Create はユーザーに対して新しいセッションを発行する。
// rememberが真の場合はRememberMaxAge、偽の場合はMaxAgeを有効期間とする。
func (m *Manager) Create(ctx context.Context, userID string, remember bool) (*model.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	maxAge := m.config.MaxAge
	if remember {
		maxAge = m.config.RememberMaxAge
	}

	now := time.Now()
	session := &model.Session{
		ID:        token,
		UserID:    userID,
		Remember:  remember,
		ExpiresAt: now.Add(maxAge),
		CreatedAt: now,
	}

	if err := m.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Resolve はトークンをユーザーに解決する。
// トークンが空・未知・期限切れ・失効済みの場合、および紐付くユーザーが
// 既に削除されている場合はnilを返す（Anonymous）。これらはエラーではない。
// リポジトリ障害のみエラーとして返す。
func (m *Manager) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := m.sessionRepo.FindByID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := m.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session user: %w", err)
	}
	if user == nil {
		// ユーザー削除後に残った古いトークン。失効として片付ける。
		if err := m.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
			slog.Warn("failed to delete orphaned session",
				slog.String("error", err.Error()),
			)
		}
		return nil, nil
	}

	return user, nil
}

// Revoke はトークンを即時失効させる。
// 冪等であり、既に失効済み・未知のトークンを渡してもエラーにならない。
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessionRepo.DeleteByID(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAllForUser は指定ユーザーの全セッションを失効させる。
// 退会処理の一部として呼ばれ、削除済みユーザーが手元のトークンで
// ログイン状態を維持することを防ぐ。
func (m *Manager) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := m.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	return nil
}

// generateToken は暗号的に安全なセッショントークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
