package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepe/prepe/internal/gate"
	"github.com/prepe/prepe/internal/metrics"
	"github.com/prepe/prepe/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// 共通
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector
	MetricsHandler    http.Handler // nilの場合は/metricsを公開しない
	HealthChecker     HealthChecker
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認証（API）
	Authenticator middleware.Authenticator

	// 管理画面ゲート
	SessionChecker gate.SessionChecker
	AdminPolicy    gate.Policy
	GuardConfig    gate.GuardConfig

	// 手動入金
	FundService FundServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → CORS
//	  /api/*, /auth/me : Auth → RateLimit(General) [→ RateLimit(FundSubmit)]
//	  /admin/*         : AdminGuard → RateLimit(General)
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mc := deps.Metrics
	if mc == nil {
		mc = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, mc))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler()
	fundHandler := NewFundHandler(deps.FundService)
	adminHandler := NewAdminHandler(deps.FundService)

	// --- 認証不要のルート ---
	r.Get("/health", HealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- Bearerトークン認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Authenticator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/auth/me", authHandler.Me)

		r.Route("/api/manual-funds", func(r chi.Router) {
			// POST /api/manual-funds - 申請専用レート制限を追加
			r.With(deps.RateLimiter.FundSubmitMiddleware()).Post("/", fundHandler.Submit)
			r.Get("/", fundHandler.List)
		})
	})

	// --- 管理画面（HTML） ---
	r.Route("/admin", func(r chi.Router) {
		r.Use(gate.NewAdminGuard(deps.SessionChecker, deps.AdminPolicy, deps.GuardConfig, mc))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/", adminHandler.Dashboard)
		r.Get("/users", adminHandler.LookupUser)
		r.Get("/users/{userID}/manual-funds", adminHandler.UserFunds)
	})

	return r
}
