package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/renrakucho/internal/metrics"
	"github.com/hitoshi/renrakucho/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenResolver     middleware.TokenResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// ヘルスチェック
	DB *sql.DB

	// サービス
	AuthService    AuthServiceInterface
	UserService    UserServiceInterface
	ContactService ContactServiceInterface
	AddressService AddressServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Metrics → Recovery
//
// Recoveryを最内にすることで、panicから回復した500も
// ロギングとメトリクスのステータス記録に反映される。
// 認証が必要なルートにはさらに Auth → RateLimit(General) を適用する。
// ログインには認証前のIPベースのレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewRecoveryMiddleware())

	// typed nilをインターフェースに入れないようnilチェックを挟む
	var authMetrics AuthMetrics
	if deps.Metrics != nil {
		authMetrics = deps.Metrics
	}
	userHandler := NewUserHandler(deps.AuthService, deps.UserService, authMetrics)
	contactHandler := NewContactHandler(deps.ContactService)
	addressHandler := NewAddressHandler(deps.AddressService)

	// --- 認証不要のルート ---

	r.Post("/api/users", userHandler.Register)
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/api/users/login", userHandler.Login)

	r.Get("/health", healthHandler(deps.DB))

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/current", userHandler.GetCurrent)
			r.Patch("/current", userHandler.UpdateProfile)
			r.Delete("/current", userHandler.Withdraw)
			r.Delete("/logout", userHandler.Logout)
		})

		// 連絡先管理
		r.Route("/api/contacts", func(r chi.Router) {
			r.Post("/", contactHandler.Create)
			r.Get("/", contactHandler.Search)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", contactHandler.Get)
				r.Put("/", contactHandler.Update)
				r.Delete("/", contactHandler.Delete)

				// 住所管理
				r.Route("/addresses", func(r chi.Router) {
					r.Post("/", addressHandler.Create)
					r.Get("/", addressHandler.List)

					r.Route("/{addressId}", func(r chi.Router) {
						r.Get("/", addressHandler.Get)
						r.Put("/", addressHandler.Update)
						r.Delete("/", addressHandler.Delete)
					})
				})
			})
		})
	})

	return r
}

// healthHandler はDB接続の生存確認を行うヘルスチェックハンドラーを返す。
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"data":"NG"}`))
				return
			}
		}

		writeData(w, http.StatusOK, "OK")
	}
}
