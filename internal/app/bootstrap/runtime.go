package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/viralforge/secure-notes/internal/adapters/cache"
	httpadapter "github.com/viralforge/secure-notes/internal/adapters/http"
	"github.com/viralforge/secure-notes/internal/adapters/postgres"
	"github.com/viralforge/secure-notes/internal/adapters/security"
	"github.com/viralforge/secure-notes/internal/application"
	"github.com/viralforge/secure-notes/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	cleanupFn  func(context.Context)
}

// NewRuntime wires storage, caches, and the application service behind the
// HTTP server. Redis is optional; when REDIS_URL is absent the session store
// and rate limiter fall back to in-process implementations.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping secure notes service", "http_port", cfg.HTTPPort)

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := pool.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var (
		sessions ports.SessionStore
		limiter  ports.RateLimiter
		cleanup  = func(ctx context.Context) { _ = sqlDB.Close() }
	)
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		sessions = cacheadapter.NewRedisSessionStore(redisClient, cfg.SessionIdleTTL, cfg.SessionAbsoluteTTL)
		limiter = cacheadapter.NewRedisRateLimiter(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow)
		cleanup = func(ctx context.Context) {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		}
	} else {
		sessions = cacheadapter.NewMemorySessionStore(cfg.SessionIdleTTL, cfg.SessionAbsoluteTTL)
		limiter = cacheadapter.NewMemoryRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	}

	repos := postgres.NewRepositories(pool)

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			FailedLoginThreshold: cfg.FailedThreshold,
			FailureWindow:        cfg.FailureWindow,
			LockoutDuration:      cfg.LockoutDuration,
		},
		Users:         repos.Users,
		Notes:         repos.Notes,
		LoginAttempts: repos.LoginAttempts,
		Tracker:       cacheadapter.NewMemoryAttemptTracker(),
		Sessions:      sessions,
		Limiter:       limiter,
		Hasher:        security.NewBcryptHasher(cfg.BcryptCost),
		Metrics:       application.NewMetrics(time.Now().UTC()),
	})

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		cleanupFn:  cleanup,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}
