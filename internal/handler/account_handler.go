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

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	Register(ctx context.Context, f form.RegisterForm) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, f form.AccountForm) (*model.User, error)
	Withdraw(ctx context.Context, userID string) error
}

// AccountHandler は登録・プロフィール更新・退会のHTTPハンドラー。
type AccountHandler struct {
	service      AccountServiceInterface
	view         *view.Renderer
	collector    metrics.MetricsCollector
	cookieDomain string
	cookieSecure bool
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AccountServiceInterface, v *view.Renderer, collector metrics.MetricsCollector, cookieDomain string, cookieSecure bool) *AccountHandler {
	return &AccountHandler{
		service:      service,
		view:         v,
		collector:    collector,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
	}
}

// RegisterPage は登録フォームを表示する。
// GET /register
func (h *AccountHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "register", baseData(r, "Register"))
}

// Register は新規ユーザーを登録する。
// POST /register
//
// 成功時は記事作成ページへ303リダイレクトする。
// 登録では自動ログインしないため、リダイレクト先の認証ゲートで
// 登録ページへ戻される。ログインを挟んでから記事作成に進む導線。
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	f := form.ParseRegisterForm(r)

	if err := f.Validate(); err != nil {
		data := baseData(r, "Register")
		data.Form = registerFormValues(f)
		data.Errors = form.FieldErrors(err)
		h.view.Render(w, http.StatusOK, "register", data)
		return
	}

	if _, err := h.service.Register(r.Context(), f); err != nil {
		if model.IsDuplicateEmail(err) {
			data := baseData(r, "Register")
			data.Form = registerFormValues(f)
			data.Errors = map[string]string{"Email": appErrorMessage(err)}
			h.view.Render(w, http.StatusOK, "register", data)
			return
		}
		slog.Error("registration failed", slog.String("error", err.Error()))
		renderInternalError(w)
		return
	}

	h.collector.RecordRegistration()

	http.Redirect(w, r, "/post", http.StatusSeeOther)
}

// AccountPage は現在のプロフィールを埋めた更新フォームを表示する。
// GET /account
func (h *AccountHandler) AccountPage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		// 認証ゲートの後段で到達しないはずの分岐
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	data := baseData(r, "Account")
	data.Form = map[string]string{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
	}
	h.view.Render(w, http.StatusOK, "account", data)
}

// AccountUpdate はfirst_name、last_name、emailを更新する。
// POST /account
func (h *AccountHandler) AccountUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	f := form.ParseAccountForm(r)

	if err := f.Validate(); err != nil {
		data := baseData(r, "Account")
		data.Form = accountFormValues(f)
		data.Errors = form.FieldErrors(err)
		h.view.Render(w, http.StatusOK, "account", data)
		return
	}

	if _, err := h.service.UpdateProfile(r.Context(), user.ID, f); err != nil {
		if model.IsDuplicateEmail(err) {
			data := baseData(r, "Account")
			data.Form = accountFormValues(f)
			data.Errors = map[string]string{"Email": appErrorMessage(err)}
			h.view.Render(w, http.StatusOK, "account", data)
			return
		}
		slog.Error("profile update failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		renderInternalError(w)
		return
	}

	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

// AccountDelete は退会処理を実行する。
// 記事・ユーザー・セッションがすべて削除され、元に戻せない。
// POST /account/delete
func (h *AccountHandler) AccountDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if err := h.service.Withdraw(r.Context(), user.ID); err != nil {
		slog.Error("withdrawal failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		renderInternalError(w)
		return
	}

	h.collector.RecordWithdrawal()

	// サーバー側のセッションは失効済み。Cookieもクリアする。
	clearSessionCookie(w, h.cookieDomain, h.cookieSecure)

	http.Redirect(w, r, "/register", http.StatusSeeOther)
}

// registerFormValues は再表示用の入力値を返す。パスワードは含めない。
func registerFormValues(f form.RegisterForm) map[string]string {
	return map[string]string{
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"email":      f.Email,
	}
}

// accountFormValues は再表示用の入力値を返す。
func accountFormValues(f form.AccountForm) map[string]string {
	return map[string]string{
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"email":      f.Email,
	}
}
