package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/catalog-backend/internal/http/handlers"
	"github.com/pribylovaa/catalog-backend/internal/http/middleware"
	"github.com/pribylovaa/catalog-backend/internal/service"
)

// Options - параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой - роуты регистрируются на корне.

	// Registry - реестр метрик; nil отключает /metrics и HTTP-метрики.
	Registry *prometheus.Registry
	// Ready - флаг готовности для /healthz; nil означает "всегда готов".
	Ready *atomic.Bool
	// DB - проверка хранилища для /healthz (опционально).
	DB Pinger
	// AllowedOrigins - разрешённые CORS origin'ы; пустой список отключает CORS.
	AllowedOrigins []string
}

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(auth *service.AuthService, tokens *service.TokenService, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Registry != nil {
		root.Use(middleware.NewMetrics(opts.Registry).Middleware())
	}
	if len(opts.AllowedOrigins) > 0 {
		root.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Служебные эндпойнты живут вне BasePath и без таймаута.
	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil && !opts.Ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		if opts.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()

			if err := opts.DB.Ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	})
	if opts.Registry != nil {
		root.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	// Зависимости хендлеров.
	h := handlers.New(auth, tokens)

	api := chi.NewRouter()
	api.Use(middleware.AuthBearer()) // вынимаем Bearer токен в контекст
	if opts.Timeout > 0 {
		api.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}
	registerRoutes(api, h)

	// Регистрация маршрутов.
	if opts.BasePath != "" && opts.BasePath != "/" {
		root.Mount(opts.BasePath, api)
		return root
	}

	root.Mount("/", api)
	return root
}

// registerRoutes - единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/revoke", h.Revoke)
	r.Post("/auth/validate", h.Validate)

	// маршруты, требующие Bearer-токена.
	r.Method(http.MethodPost, "/auth/logout", middleware.Chain(http.HandlerFunc(h.Logout), middleware.RequireBearer()))
	r.Method(http.MethodGet, "/auth/me", middleware.Chain(http.HandlerFunc(h.Me), middleware.RequireBearer()))
}
