package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/yogabook/internal/metrics"
	"github.com/hitoshi/yogabook/internal/middleware"
)

// HealthChecker はDB疎通確認のためのインターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenValidator    middleware.TokenValidator
	IdentityFinder    middleware.IdentityFinder
	CORSAllowedOrigin string
	Logger            *slog.Logger
	Metrics           *metrics.Collector
	Gatherer          prometheus.Gatherer

	// 運用系
	HealthChecker HealthChecker

	// ドメインサービス
	AuthService    AuthServiceInterface
	SessionService SessionServiceInterface
	TeacherService TeacherServiceInterface
	UserService    UserServiceInterface
}

// bearerSkipPaths は認証ゲートが素通しするパスのプレフィックス。
var bearerSkipPaths = []string{"/api/auth", "/health", "/metrics"}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → BearerAuth → Logging
//
// BearerAuthをLoggingより先に適用することで、アクセスログに認証済みユーザーIDが載る。
// 認証ルート（/api/auth/*）と運用系（/health, /metrics）はゲートの素通し対象だが、
// 保護ルートはRequireUserで未認証リクエストを401にする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CollectorはnilでもミドルウェアがNo-opとして扱えるよう、
	// 非nilインターフェースへの変換はここで行う。
	var tokenMetrics middleware.TokenRejectionRecorder
	var statusMetrics middleware.HTTPStatusRecorder
	if deps.Metrics != nil {
		tokenMetrics = deps.Metrics
		statusMetrics = deps.Metrics
	}

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewBearerAuthMiddleware(deps.TokenValidator, deps.IdentityFinder, bearerSkipPaths, tokenMetrics))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, statusMetrics))

	authHandler := NewAuthHandler(deps.AuthService)
	sessionHandler := NewSessionHandler(deps.SessionService)
	teacherHandler := NewTeacherHandler(deps.TeacherService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
	})

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireUserMiddleware())

		// セッション管理
		r.Route("/api/session", func(r chi.Router) {
			r.Get("/", sessionHandler.ListSessions)
			r.Post("/", sessionHandler.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Put("/", sessionHandler.UpdateSession)
				r.Delete("/", sessionHandler.DeleteSession)

				r.Post("/participate/{userId}", sessionHandler.Participate)
				r.Delete("/participate/{userId}", sessionHandler.NoLongerParticipate)
			})
		})

		// 講師参照
		r.Route("/api/teacher", func(r chi.Router) {
			r.Get("/", teacherHandler.ListTeachers)
			r.Get("/{id}", teacherHandler.GetTeacher)
		})

		// ユーザー管理
		r.Route("/api/user/{id}", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Delete("/", userHandler.DeleteUser)
		})
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}
