package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/blogman/internal/form"
	"github.com/hitoshi/blogman/internal/metrics"
	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/view"
)

// PostServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	Create(ctx context.Context, authorID string, f form.PostForm) (*model.Post, error)
}

// PostHandler は記事作成のHTTPハンドラー。
type PostHandler struct {
	service   PostServiceInterface
	view      *view.Renderer
	collector metrics.MetricsCollector
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface, v *view.Renderer, collector metrics.MetricsCollector) *PostHandler {
	return &PostHandler{
		service:   service,
		view:      v,
		collector: collector,
	}
}

// NewPostPage は記事作成フォームを表示する。
// GET /post
func (h *PostHandler) NewPostPage(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "new_post", baseData(r, "New Post"))
}

// CreatePost は記事を作成する。
// 投稿者は必ずセッションから解決された認証済みユーザー。
// POST /post
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	f := form.ParsePostForm(r)

	if err := f.Validate(); err != nil {
		data := baseData(r, "New Post")
		data.Form = map[string]string{"title": f.Title, "content": f.Content}
		data.Errors = form.FieldErrors(err)
		h.view.Render(w, http.StatusOK, "new_post", data)
		return
	}

	if _, err := h.service.Create(r.Context(), user.ID, f); err != nil {
		slog.Error("post creation failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		renderInternalError(w)
		return
	}

	h.collector.RecordPostCreated()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
