package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/blogman/internal/metrics"
	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/view"
)

// HealthChecker はヘルスチェックが必要とするDB疎通確認のインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger          *slog.Logger
	SessionResolver middleware.SessionResolver
	RateLimiter     *middleware.RateLimiter
	CSRFEnabled     bool
	CSRFConfig      middleware.CSRFConfig

	// メトリクス
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// ヘルスチェック
	DB HealthChecker

	// 描画
	View *view.Renderer

	// サービス
	AuthService    AuthServiceInterface
	AuthConfig     AuthHandlerConfig
	AccountService AccountServiceInterface
	PostService    PostServiceInterface
	PostLister     PostListerInterface
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Metrics → Identity → Logging → CSRF
//
// Identityは全ルートで走り、未認証でも素通りする。アクセス制御は
// ルートグループのRequireAuth / RequireAnonymousが行う。
// LoggingをIdentityの後段に置くことで、認証済みリクエストのログに
// user_idが入る。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(metrics.NewMiddleware(deps.Collector))
	r.Use(middleware.NewIdentityMiddleware(deps.SessionResolver))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.CSRFEnabled {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.View, deps.Collector, deps.AuthConfig)
	accountHandler := NewAccountHandler(deps.AccountService, deps.View, deps.Collector,
		deps.AuthConfig.CookieDomain, deps.AuthConfig.CookieSecure)
	postHandler := NewPostHandler(deps.PostService, deps.View, deps.Collector)
	pageHandler := NewPageHandler(deps.PostLister, deps.View)

	// --- 認証不要のルート ---

	r.Get("/", pageHandler.Home)
	r.Get("/home", pageHandler.Home)
	r.Get("/about", pageHandler.About)

	r.Get("/health", newHealthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	r.Handle("/static/*", view.StaticHandler())

	// ログアウトはAnonymousでも成功する（冪等）
	r.Post("/logout", authHandler.Logout)

	// --- 認証済みユーザーを弾くルート（登録・ログイン入口） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireAnonymousMiddleware("/"))

		r.Get("/register", accountHandler.RegisterPage)
		r.Post("/register", accountHandler.Register)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
	})

	// --- 認証が必要なルート ---
	// Anonymousは登録ページへ303リダイレクトされる（ゲート拒否）
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireAuthMiddleware("/register"))
		r.Use(deps.RateLimiter.Middleware())

		r.Get("/post", postHandler.NewPostPage)
		r.Post("/post", postHandler.CreatePost)

		r.Get("/account", accountHandler.AccountPage)
		r.Post("/account", accountHandler.AccountUpdate)
		r.Post("/account/delete", accountHandler.AccountDelete)
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func newHealthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
