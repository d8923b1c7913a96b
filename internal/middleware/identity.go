// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/blogman/internal/model"
)

// SessionCookieName はセッショントークンを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("user")

// SessionResolver はセッショントークンをユーザーに解決するインターフェース。
// session.Managerの部分集合として定義する。
// トークンが無効な場合は(nil, nil)を返す契約（Anonymousは正常系）。
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// NewIdentityMiddleware はセッションCookieを認証済みユーザーに解決し、
// リクエストコンテキストに注入するミドルウェアを返す。
// 未認証（Anonymous）のリクエストもそのまま通す。アクセス制御は
// RequireAuthMiddlewareが行い、このミドルウェアは解決のみを担当する。
func NewIdentityMiddleware(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				// リポジトリ障害。Anonymousとして処理を続行する。
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				// 期限切れ・失効・改竄トークン。Anonymousとして続行。
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRequireAuthMiddleware は認証ゲートのミドルウェアを返す。
// Anonymousのリクエストはredirect先（登録ページ）へ303リダイレクトする。
// これはゲート拒否であり、エラー応答ではない。
// IdentityMiddlewareの後段に配置すること。
func NewRequireAuthMiddleware(redirect string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); !ok {
				http.Redirect(w, r, redirect, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewRequireAnonymousMiddleware はログイン・登録入口用のミドルウェアを返す。
// 既に認証済みの場合はtargetへ303リダイレクトする。
// セキュリティ境界ではなく、認証フォームの再表示を避ける冪等ガード。
func NewRequireAnonymousMiddleware(target string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); ok {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// Anonymousの場合は(nil, false)を返す。
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// ContextWithUser はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
