// Package handler はHTTPハンドラーを提供する。
//
// 各ハンドラーはサービス層のインターフェースに依存し、
// フォームの取り込み・検証・テンプレート描画・Cookie管理を担当する。
// ビジネスルール（重複判定、認証判定、削除順序）はサービス層の責務。
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/view"
)

// baseData はテンプレート描画の共通データを組み立てる。
// 認証済みユーザーとCSRFトークンはすべてのページで参照される
// （レイアウトのナビゲーションとログアウトフォーム）。
func baseData(r *http.Request, title string) view.Data {
	user, _ := middleware.UserFromContext(r.Context())
	return view.Data{
		Title:     title,
		User:      user,
		CSRFToken: middleware.CSRFTokenFromRequest(r),
	}
}

// appErrorMessage はAppErrorからユーザー向けメッセージを取り出す。
// AppErrorでない場合は汎用メッセージを返す（内部詳細は漏らさない）。
func appErrorMessage(err error) string {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "エラーが発生しました。時間をおいて再度お試しください。"
}

// renderInternalError は予期しないサービス層エラーの応答を返す。
func renderInternalError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// sanitizeNextPath はログイン後のリダイレクト先を検証する。
// 同一オリジンの相対パスのみを許可し、オープンリダイレクトを防ぐ。
// 不正な値は空文字列（デフォルトのリダイレクト先）に落とす。
func sanitizeNextPath(raw string) string {
	if raw == "" {
		return ""
	}
	// "//evil.example" や "/\evil.example" はブラウザが外部ホストと解釈する
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return raw
}
