package view

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// StaticHandler は埋め込み静的ファイル（CSS等）を/static/配下で配信するハンドラーを返す。
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embedディレクトリ構成が壊れている場合のみ。ビルド時に確定する。
		slog.Error("failed to mount static files", slog.String("error", err.Error()))
		return http.NotFoundHandler()
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
