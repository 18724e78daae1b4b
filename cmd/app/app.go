package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/portfolio-site/internal/api"
	"github.com/vietanh2810/portfolio-site/internal/config"
	"github.com/vietanh2810/portfolio-site/internal/db"
	"github.com/vietanh2810/portfolio-site/internal/logger"
	"github.com/vietanh2810/portfolio-site/internal/ratelimit"
	"github.com/vietanh2810/portfolio-site/internal/repository"
	"github.com/vietanh2810/portfolio-site/internal/repository/dao"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	if err = logger.SetLevel(conf.Log.Level); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}

	if err = config.Watch(configPath, func(c *config.AppConfig) {
		if err := logger.SetLevel(c.Log.Level); err != nil {
			zap.L().Warn("keeping previous log level", zap.Error(err))
		}
	}); err != nil {
		zap.L().Warn("config file will not be watched", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	limiter, err := openLimiter(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter -> %w", err)
	}

	s := api.NewServer(conf, store, limiter)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr),
			zap.String("environment", conf.API.Environment),
			zap.String("storage", conf.Storage.Driver),
			zap.Bool("rate_limit", conf.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zap.L().Info("received shutdown signal")
	case err = <-serverErrCh:
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown the server gracefully -> %w", err)
	}

	zap.L().Info("server shutdown completed")

	return nil
}

func openStore(conf *config.AppConfig) (repository.MessageDAO, error) {
	switch conf.Storage.Driver {
	case config.StoragePostgres:
		var postgresDB *gorm.DB
		var err error
		if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
			postgresDB, err = db.OpenPostgresWithURL(dbURL)
		} else {
			postgresDB, err = db.OpenPostgres(conf.Postgres)
		}
		if err != nil {
			return nil, err
		}
		return dao.NewPostgresMessageDAO(postgresDB), nil
	default:
		zap.L().Info("storing contact messages in file", zap.String("path", conf.Storage.FilePath))
		return dao.NewFileMessageDAO(conf.Storage.FilePath), nil
	}
}

func openLimiter(ctx context.Context, conf *config.AppConfig) (ratelimit.Limiter, error) {
	if !conf.RateLimit.Enabled {
		return nil, nil
	}

	switch conf.RateLimit.Backend {
	case config.RateLimitRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("rdb.Ping -> %w", err)
		}
		return ratelimit.NewRedisLimiter(rdb, conf.Redis.Prefix, conf.RateLimit.Max, conf.RateLimit.Window), nil
	default:
		limiter := ratelimit.NewMemoryLimiter(conf.RateLimit.Max, conf.RateLimit.Window)
		limiter.StartJanitor(ctx)
		return limiter, nil
	}
}
