// Package post は記事管理のドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/blogman/internal/form"
	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
	"github.com/hitoshi/blogman/internal/security"
)

// Service は記事のビジネスロジックを提供する。
type Service struct {
	postRepo  repository.PostRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(postRepo repository.PostRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		postRepo:  postRepo,
		sanitizer: sanitizer,
	}
}

// Create は認証済みユーザーの記事を作成する。
// authorIDは必ずセッションから解決された認証済みIDであること。
// フォーム入力のauthor指定は一切受け付けない。
// 本文は保存前にサニタイズされる。
func (s *Service) Create(ctx context.Context, authorID string, f form.PostForm) (*model.Post, error) {
	if authorID == "" {
		return nil, fmt.Errorf("author ID is required")
	}

	post := &model.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     f.Title,
		Content:   s.sanitizer.Sanitize(f.Content),
		CreatedAt: time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("author_id", authorID),
	)

	return post, nil
}

// List は全記事を投稿者名付きで新しい順に返す。誰でも閲覧できる。
func (s *Service) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Get は指定IDの記事を取得する。見つからない場合はnilを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}
