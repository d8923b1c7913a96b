// Package view はサーバーサイドレンダリングのテンプレート描画を提供する。
//
// テンプレートはバイナリに埋め込み、layout.htmlと各ページを組み合わせて
// 起動時に1回パースする。コアのロジックはデータを渡すだけで、
// 整形はすべてテンプレート側の責務とする。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/blogman/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Data はテンプレートに渡す描画データ。
type Data struct {
	Title     string
	User      *model.User             // 認証済みユーザー。AnonymousはNil。
	Posts     []model.PostWithAuthor  // homeページ用
	Form      map[string]string       // フォーム再表示用の入力値（パスワードは含めない）
	Errors    map[string]string       // フィールド名→エラーメッセージ
	CSRFToken string                  // 隠しフィールド用CSRFトークン
	Next      string                  // ログイン後のリダイレクト先
}

// Renderer はページ名ごとにパース済みテンプレートを保持する。
type Renderer struct {
	tmpl map[string]*template.Template
}

// funcMap はテンプレート内で使用する補助関数。
// sanitizedはbluemondayでサニタイズ済みの記事本文をHTMLとして描画するために使う。
// サニタイズ前の文字列に適用してはならない。
var funcMap = template.FuncMap{
	"sanitized": func(s string) template.HTML { return template.HTML(s) },
}

// NewRenderer は埋め込みテンプレートをパースしてRendererを生成する。
// layout.html以外の各ページをlayoutと組み合わせる。
func NewRenderer() (*Renderer, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	tmpl := map[string]*template.Template{}
	for _, entry := range entries {
		name := entry.Name()
		if name == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcMap).ParseFS(
			templatesFS, "templates/layout.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tmpl[strings.TrimSuffix(name, ".html")] = t
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render は指定ページをレイアウトに埋め込んで描画する。
// テンプレートが見つからない・描画に失敗した場合は500を返す。
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data Data) {
	t, ok := r.tmpl[name]
	if !ok {
		slog.Error("template not found", slog.String("name", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
	}
}
