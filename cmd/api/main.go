// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/house-of-bloom/internal/admin"
	"github.com/carterperez-dev/house-of-bloom/internal/auth"
	"github.com/carterperez-dev/house-of-bloom/internal/catalog"
	"github.com/carterperez-dev/house-of-bloom/internal/config"
	"github.com/carterperez-dev/house-of-bloom/internal/content"
	"github.com/carterperez-dev/house-of-bloom/internal/core"
	"github.com/carterperez-dev/house-of-bloom/internal/health"
	"github.com/carterperez-dev/house-of-bloom/internal/history"
	"github.com/carterperez-dev/house-of-bloom/internal/middleware"
	"github.com/carterperez-dev/house-of-bloom/internal/migrations"
	"github.com/carterperez-dev/house-of-bloom/internal/server"
	"github.com/carterperez-dev/house-of-bloom/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		switch {
		case telErr != nil:
			logger.Warn("failed to initialize telemetry", "error", telErr)
		case tel == nil:
			logger.Warn("telemetry enabled without an endpoint, tracing disabled")
		default:
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("database close error", "error", closeErr)
		}
	}()
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := redis.Close(); closeErr != nil {
			logger.Error("redis close error", "error", closeErr)
		}
	}()
	if redis != nil {
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	} else {
		logger.Info("redis not configured, catalog cache disabled")
	}

	hasher, err := core.NewPasswordHasher(cfg.Security.PasswordScheme)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", cfg.JWT.Algorithm,
		"password_scheme", hasher.Scheme(),
	)

	userSvc := user.NewService(db.DB)

	authSvc, err := auth.NewService(tokens, userSvc, hasher)
	if err != nil {
		return err
	}
	authHandler := auth.NewHandler(authSvc)

	catalogSvc := catalog.NewService(
		db.DB,
		catalog.NewCache(redis, cfg.Catalog.CacheTTL),
		logger,
		catalog.Options{
			BatchSize:   cfg.Catalog.BatchSize,
			SearchLimit: cfg.Catalog.SearchLimit,
			OnDuplicate: catalog.DuplicatePolicy(cfg.Catalog.OnDuplicateSlug),
		},
	)
	catalogHandler := catalog.NewHandler(catalogSvc)

	source, err := catalog.NewSource(cfg.Catalog, cfg.Storage)
	if err != nil {
		return err
	}

	if cfg.Catalog.SyncOnStart {
		if err := syncCatalog(ctx, catalogSvc, source, cfg.Catalog.LoadTimeout); err != nil {
			return err
		}
	}

	historySvc := history.NewService(history.NewRepository(db.DB))
	historyHandler := history.NewHandler(historySvc)

	contentHandler := content.NewHandler(content.Default())

	redisDep := health.Dependency{Name: "redis", Optional: true}
	if redis != nil {
		redisDep.Checker = redis
	}
	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		redisDep,
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:      db.Stats,
		RedisStats:   redis.PoolStats,
		DBPing:       db.Ping,
		RedisPing:    redis.Ping,
		Catalog:      catalogOps{svc: catalogSvc, src: source},
		CountUsers:   userSvc.Count,
		CountHistory: historySvc.Count,
		Logger:       logger,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(authSvc, logger)

	router.Route("/api", func(r chi.Router) {
		contentHandler.RegisterRoutes(r)
		catalogHandler.RegisterRoutes(r)
		authHandler.RegisterRoutes(r, authenticator)
		historyHandler.RegisterRoutes(r, authenticator)

		if cfg.Admin.APIKey != "" {
			adminHandler.RegisterRoutes(r, middleware.AdminKey(cfg.Admin.APIKey))
		} else {
			logger.Info("admin api key not set, admin routes disabled")
		}
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

// syncCatalog runs the startup load. Any failure, including an integrity
// violation, stops the process before it starts serving.
func syncCatalog(
	ctx context.Context,
	svc *catalog.Service,
	src catalog.Source,
	timeout time.Duration,
) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if _, err := svc.Reload(ctx, src); err != nil {
		return fmt.Errorf("initial catalog sync from %s: %w", src, err)
	}
	return nil
}

// catalogOps binds the configured source so operators can reload without
// naming it.
type catalogOps struct {
	svc *catalog.Service
	src catalog.Source
}

func (c catalogOps) Stats(ctx context.Context) (catalog.Stats, error) {
	return c.svc.Stats(ctx)
}

func (c catalogOps) Reload(ctx context.Context) (catalog.SyncResult, error) {
	return c.svc.Reload(ctx, c.src)
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
