package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/blogman/internal/form"
	"github.com/hitoshi/blogman/internal/metrics"
	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, f form.LoginForm) (*model.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain   string
	CookieSecure   bool
	RememberMaxAge time.Duration // remember指定時のCookie有効期間
}

// AuthHandler はログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service   AuthServiceInterface
	view      *view.Renderer
	collector metrics.MetricsCollector
	config    AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, v *view.Renderer, collector metrics.MetricsCollector, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:   service,
		view:      v,
		collector: collector,
		config:    config,
	}
}

// LoginPage はログインフォームを表示する。
// GET /login?next=/post
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, "Login")
	data.Next = sanitizeNextPath(r.URL.Query().Get("next"))
	h.view.Render(w, http.StatusOK, "login", data)
}

// Login はメールアドレスとパスワードで認証し、セッションCookieを発行する。
// POST /login?next=/post
//
// 認証失敗時はどの検査で失敗したかを区別せず同一メッセージでフォームを再表示する。
// rememberが指定された場合のみ永続Cookie、それ以外はブラウザセッションCookie。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	f := form.ParseLoginForm(r)
	next := sanitizeNextPath(r.URL.Query().Get("next"))

	if err := f.Validate(); err != nil {
		data := baseData(r, "Login")
		data.Form = map[string]string{"email": f.Email}
		data.Errors = form.FieldErrors(err)
		data.Next = next
		h.view.Render(w, http.StatusOK, "login", data)
		return
	}

	session, err := h.service.Login(r.Context(), f)
	if err != nil {
		if model.IsInvalidCredentials(err) {
			data := baseData(r, "Login")
			data.Form = map[string]string{"email": f.Email}
			data.Errors = map[string]string{"form": appErrorMessage(err)}
			data.Next = next
			h.view.Render(w, http.StatusOK, "login", data)
			return
		}
		slog.Error("login failed", slog.String("error", err.Error()))
		renderInternalError(w)
		return
	}

	// セッションCookieを設定（HTTP Only）
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if f.Remember {
		cookie.MaxAge = int(h.config.RememberMaxAge.Seconds())
	}
	http.SetCookie(w, cookie)

	h.collector.RecordLogin()

	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout は現在のセッションを失効させ、Cookieをクリアする。
// アクティブなセッションがない場合も成功としてホームへ戻す（冪等）。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	clearSessionCookie(w, h.config.CookieDomain, h.config.CookieSecure)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// clearSessionCookie はセッションCookieを削除する。
func clearSessionCookie(w http.ResponseWriter, domain string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
