package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/view"
)

// PostListerInterface はページハンドラーが必要とする記事一覧サービス。
type PostListerInterface interface {
	List(ctx context.Context) ([]model.PostWithAuthor, error)
}

// PageHandler は公開ページ（ホーム・About）のHTTPハンドラー。
type PageHandler struct {
	posts PostListerInterface
	view  *view.Renderer
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(posts PostListerInterface, v *view.Renderer) *PageHandler {
	return &PageHandler{
		posts: posts,
		view:  v,
	}
}

// Home は全記事を新しい順に表示する。認証不要。
// GET / および GET /home
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		slog.Error("failed to list posts", slog.String("error", err.Error()))
		renderInternalError(w)
		return
	}

	data := baseData(r, "Home")
	data.Posts = posts
	h.view.Render(w, http.StatusOK, "home", data)
}

// About は静的なAboutページを表示する。認証不要。
// GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "about", baseData(r, "About"))
}
