// Package main - точка входа HTTP-сервера Campus Ops Hub.
//
// Единая панель кампуса: академические риски студентов, загрузка
// автобусных маршрутов, задолженности и AI-ассистент ScholarBot -
// всё в одном месте, чтобы деканат видел проблему раньше, чем она
// станет отчислением.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries/Auth)
// - Infrastructure: реализация хранилищ, внешние API
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/campus-hub/campus-ops-hub/config"

	// Application layer
	"github.com/campus-hub/campus-ops-hub/internal/application/auth"
	"github.com/campus-hub/campus-ops-hub/internal/application/command"
	"github.com/campus-hub/campus-ops-hub/internal/application/query"

	// Domain layer
	"github.com/campus-hub/campus-ops-hub/internal/domain/session"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"

	// Infrastructure layer
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/external/assistant"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/memory"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/postgres"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/campus-hub/campus-ops-hub/internal/interface/http"

	// Packages
	"github.com/campus-hub/campus-ops-hub/pkg/logger"
	"github.com/campus-hub/campus-ops-hub/pkg/retry"
)

// campusStore объединяет репозитории одного бэкенда хранения.
// Memory, Redis и Postgres реализации предоставляют одинаковый набор.
type campusStore interface {
	Students() student.Repository
	Buses() transit.Repository
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем приложение
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	// .env опционален: в контейнерах конфигурация приходит из окружения
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Campus Ops Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ВЫБОР ХРАНИЛИЩА (Postgres > Redis > Memory)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		store    campusStore
		sessions session.RememberedStore
	)

	switch {
	case cfg.Database.URL != "":
		log.Info("connecting to database...")
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL, postgres.PoolConfig{
			MaxConns:        cfg.Database.MaxOpenConns,
			MinConns:        cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			conn.Close()
		}()

		campus, err := postgres.NewCampus(ctx, conn)
		if err != nil {
			return fmt.Errorf("failed to initialize campus schema: %w", err)
		}
		store = campus
		sessions = campus.Sessions()
		log.Info("database connection established")

	case !cfg.Redis.Disabled:
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.MaxRetries = cfg.Redis.MaxRetries
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		var redisStore *redis.Store
		err := retry.StoreRetrier().Do(ctx, func(ctx context.Context) error {
			var connErr error
			redisStore, connErr = redis.NewStore(redisCfg)
			return connErr
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer func() {
			log.Info("closing Redis connection...")
			_ = redisStore.Close()
		}()

		campus := redis.NewCampus(redisStore)
		store = campus
		sessions = campus.Sessions()
		log.Info("Redis connection established", logger.String("addr", redisCfg.Addr()))

	default:
		log.Info("Redis disabled, using in-memory store")
		memStore, err := memory.NewStore()
		if err != nil {
			return fmt.Errorf("failed to build in-memory store: %w", err)
		}
		store = memStore
		sessions = memStore.Sessions()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ AUTH GATE
	// ─────────────────────────────────────────────────────────────────────────
	gate, err := auth.NewGate(auth.Config{
		AdminIdentifier: cfg.Auth.AdminIdentifier,
		AdminPasscode:   cfg.Auth.AdminPasscode,
		DisableRemember: !cfg.Features.IsEnabled(config.FeatureAuthRememberMe, nil),
	}, store.Students(), sessions, log)
	if err != nil {
		return fmt.Errorf("failed to initialize auth gate: %w", err)
	}
	if cfg.Auth.AdminPasscode == "" {
		log.Warn("ADMIN_PASSCODE not set, admin login disabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ AI-АССИСТЕНТА (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var assistantSvc *assistant.Service
	if cfg.Assistant.APIKey != "" && cfg.Features.AssistantEnabled(nil) {
		assistantCfg := assistant.DefaultConfig(cfg.Assistant.BaseURL, cfg.Assistant.APIKey)
		assistantCfg.Model = cfg.Assistant.Model
		assistantCfg.RequestTimeout = cfg.Assistant.RequestTimeout
		assistantCfg.BreakerThreshold = cfg.Assistant.CircuitBreakerThreshold
		assistantCfg.BreakerTimeout = cfg.Assistant.CircuitBreakerTimeout
		assistantCfg.BreakerHalfOpenMax = cfg.Assistant.CircuitBreakerHalfOpenMax
		assistantCfg.Logger = log

		assistantSvc = assistant.NewService(assistant.NewClient(assistantCfg), log)
		log.Info("assistant initialized", logger.String("model", cfg.Assistant.Model))
	} else {
		log.Info("assistant disabled (no API key or feature off)")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	listStudents := query.NewListStudentsHandler(store.Students())
	getStudent := query.NewGetStudentHandler(store.Students())
	listBuses := query.NewListBusesHandler(store.Buses())
	getDashboard := query.NewGetDashboardHandler(store.Students(), store.Buses())
	updateStudent := command.NewUpdateStudentHandler(store.Students(), log)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		ListStudentsHandler:  listStudents,
		GetStudentHandler:    getStudent,
		ListBusesHandler:     listBuses,
		GetDashboardHandler:  getDashboard,
		UpdateStudentHandler: updateStudent,
		Gate:                 gate,
		Assistant:            assistantSvc,
		Logger:               log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", logger.String("address", server.Address()))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("Campus Ops Hub is running", logger.String("http_address", server.Address()))

	// Ожидаем сигнал завершения или ошибку
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...",
		logger.String("timeout", cfg.App.ShutdownTimeout.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = parseLogLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

func parseLogLevel(level string) logger.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}
