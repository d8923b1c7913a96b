package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
)

// --- モック定義 ---

type mockSessionRepo struct {
	createFn         func(ctx context.Context, session *model.Session) error
	findByIDFn       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn     func(ctx context.Context, id string) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (m *mockUserRepo) FindByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(_ context.Context, _ *model.User) error { return nil }

func (m *mockUserRepo) DeleteCascade(_ context.Context, _ string) error { return nil }

// --- compile-time interface checks ---
var _ repository.SessionRepository = (*mockSessionRepo)(nil)
var _ repository.UserRepository = (*mockUserRepo)(nil)

func testConfig() ManagerConfig {
	return ManagerConfig{
		MaxAge:         24 * time.Hour,
		RememberMaxAge: 30 * 24 * time.Hour,
	}
}

// --- テスト ---

func TestCreate_GeneratesOpaqueToken(t *testing.T) {
	ctx := context.Background()

	var saved *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			saved = session
			return nil
		},
	}
	m := NewManager(sessionRepo, &mockUserRepo{}, testConfig())

	session, err := m.Create(ctx, "user-1", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 32バイトの16進数エンコード = 64文字
	if len(session.ID) != 64 {
		t.Errorf("token length = %d, want 64", len(session.ID))
	}
	if saved == nil || saved.ID != session.ID {
		t.Error("expected session to be persisted")
	}
	if saved.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", saved.UserID, "user-1")
	}
}

func TestCreate_TokensAreUnique(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&mockSessionRepo{}, &mockUserRepo{}, testConfig())

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		session, err := m.Create(ctx, "user-1", false)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[session.ID] {
			t.Fatal("duplicate session token generated")
		}
		seen[session.ID] = true
	}
}

func TestCreate_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&mockSessionRepo{}, &mockUserRepo{}, testConfig())

	before := time.Now()
	session, err := m.Create(ctx, "user-1", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := before.Add(24 * time.Hour)
	if session.ExpiresAt.Before(want.Add(-time.Minute)) || session.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want ~%v", session.ExpiresAt, want)
	}
	if session.Remember {
		t.Error("Remember should be false")
	}
}

func TestCreate_RememberExtendsTTL(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&mockSessionRepo{}, &mockUserRepo{}, testConfig())

	before := time.Now()
	session, err := m.Create(ctx, "user-1", true)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := before.Add(30 * 24 * time.Hour)
	if session.ExpiresAt.Before(want.Add(-time.Minute)) || session.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want ~%v", session.ExpiresAt, want)
	}
	if !session.Remember {
		t.Error("Remember should be true")
	}
}

func TestResolve_EmptyToken_ReturnsAnonymous(t *testing.T) {
	ctx := context.Background()

	called := false
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			called = true
			return nil, nil
		},
	}
	m := NewManager(sessionRepo, &mockUserRepo{}, testConfig())

	user, err := m.Resolve(ctx, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if user != nil {
		t.Error("expected Anonymous (nil user)")
	}
	if called {
		t.Error("repository should not be queried for an empty token")
	}
}

func TestResolve_UnknownToken_ReturnsAnonymous(t *testing.T) {
	ctx := context.Background()

	// 期限切れ・失効・改竄トークンはいずれもFindByIDがnilを返す
	m := NewManager(&mockSessionRepo{}, &mockUserRepo{}, testConfig())

	user, err := m.Resolve(ctx, "unknown-token")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if user != nil {
		t.Error("expected Anonymous (nil user)")
	}
}

func TestResolve_ValidToken_ReturnsUser(t *testing.T) {
	ctx := context.Background()

	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "sam@example.com"}, nil
		},
	}
	m := NewManager(sessionRepo, userRepo, testConfig())

	user, err := m.Resolve(ctx, "valid-token")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
}

func TestResolve_OrphanedSession_DeletesAndReturnsAnonymous(t *testing.T) {
	ctx := context.Background()

	var deletedID string
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "gone-user", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	// ユーザーは既に削除されている
	m := NewManager(sessionRepo, &mockUserRepo{}, testConfig())

	user, err := m.Resolve(ctx, "stale-token")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if user != nil {
		t.Error("expected Anonymous for a deleted user's token")
	}
	if deletedID != "stale-token" {
		t.Errorf("orphaned session should be deleted, deletedID = %q", deletedID)
	}
}

func TestResolve_RepositoryFailure_ReturnsError(t *testing.T) {
	ctx := context.Background()

	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, errors.New("connection refused")
		},
	}
	m := NewManager(sessionRepo, &mockUserRepo{}, testConfig())

	if _, err := m.Resolve(ctx, "any-token"); err == nil {
		t.Error("expected error on repository failure")
	}
}

func TestRevoke_EmptyToken_IsNoop(t *testing.T) {
	ctx := context.Background()

	called := false
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			called = true
			return nil
		},
	}
	m := NewManager(sessionRepo, &mockUserRepo{}, testConfig())

	if err := m.Revoke(ctx, ""); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if called {
		t.Error("delete should not be called for an empty token")
	}
}

func TestRevoke_DeletesSession(t *testing.T) {
	ctx := context.Background()

	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	m := NewManager(sessionRepo, &mockUserRepo{}, testConfig())

	if err := m.Revoke(ctx, "token-1"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if deletedID != "token-1" {
		t.Errorf("deletedID = %q, want %q", deletedID, "token-1")
	}
}

func TestRevokeAllForUser_DeletesAllSessions(t *testing.T) {
	ctx := context.Background()

	var deletedUserID string
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			deletedUserID = userID
			return nil
		},
	}
	m := NewManager(sessionRepo, &mockUserRepo{}, testConfig())

	if err := m.RevokeAllForUser(ctx, "user-1"); err != nil {
		t.Fatalf("RevokeAllForUser() error = %v", err)
	}
	if deletedUserID != "user-1" {
		t.Errorf("deletedUserID = %q, want %q", deletedUserID, "user-1")
	}
}
