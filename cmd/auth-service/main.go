package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/pribylovaa/catalog-backend/internal/cache"
	"github.com/pribylovaa/catalog-backend/internal/config"
	authhttp "github.com/pribylovaa/catalog-backend/internal/http"
	"github.com/pribylovaa/catalog-backend/internal/janitor"
	"github.com/pribylovaa/catalog-backend/internal/password"
	"github.com/pribylovaa/catalog-backend/internal/service"
	"github.com/pribylovaa/catalog-backend/internal/storage"
	"github.com/pribylovaa/catalog-backend/internal/storage/postgres"
	"github.com/pribylovaa/catalog-backend/internal/storage/sqlite"
	"github.com/pribylovaa/catalog-backend/internal/token"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("service_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("service_stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	// Подключение к БД c таймаутом.
	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	str, err := openStorage(dbCtx, cfg.DB)
	dbCancel()
	if err != nil {
		return err
	}
	defer str.Close()
	log.Info("storage_connected", slog.String("driver", cfg.DB.Driver))

	codec, err := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.Algorithm, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	log.Info("token_codec_initialized",
		slog.String("alg", codec.Algorithm()),
		slog.String("issuer", cfg.Auth.Issuer),
	)

	tokens := service.NewTokenService(str, codec, cfg.Auth)
	auth := service.NewAuthService(str, tokens, password.NewHasher(cfg.Auth.BcryptCost))

	// Кэш отзывов опционален.
	if cfg.Redis.RedisURL != "" {
		rcCtx, rcCancel := context.WithTimeout(rootCtx, 5*time.Second)
		bl, err := cache.NewRedisCache(rcCtx, cfg.Redis.RedisURL, cfg.Redis.Prefix)
		rcCancel()
		if err != nil {
			return err
		}
		defer func() {
			if cerr := bl.Close(); cerr != nil {
				log.Warn("redis_close_failed", slog.String("err", cerr.Error()))
			}
		}()

		tokens.SetBlacklistCache(bl)
		log.Info("redis_connected")
	}
	log.Info("service_initialized")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ready := &atomic.Bool{}

	pinger, _ := str.(authhttp.Pinger)

	handler := authhttp.NewRouter(auth, tokens, authhttp.Options{
		Logger:   log,
		Timeout:  cfg.Timeouts.Service,
		BasePath: cfg.HTTP.BasePath,
		Registry: reg,
		Ready:    ready,
		DB:       pinger,

		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", httpAddr, err)
	}
	log.Info("http_listen_start", slog.String("addr", httpAddr))

	g, gctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	// Фоновая очистка просроченных записей токенов.
	jn := janitor.New(tokens, log, cfg.Janitor.Period, reg)
	g.Go(func() error {
		return jn.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown_requested")

		// Снимаем ready до остановки сервера.
		ready.Store(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
			return nil
		}

		log.Info("http_stopped")
		return nil
	})

	ready.Store(true)
	log.Info("service_ready")

	return g.Wait()
}

// openStorage выбирает хранилище по драйверу из конфигурации.
func openStorage(ctx context.Context, cfg config.DBConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.DatabaseURL)
	default:
		return postgres.New(ctx, cfg.DatabaseURL)
	}
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
