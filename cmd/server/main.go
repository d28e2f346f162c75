package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"portfolio_backend/internal/app/config"
	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/app/router"
	platformdb "portfolio_backend/internal/platform/db"
	platformhandler "portfolio_backend/internal/platform/http/handler"
	"portfolio_backend/internal/platform/http/middleware"
	"portfolio_backend/internal/platform/logger"
	infraredis "portfolio_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout))
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// db
	db, err := platformdb.OpenDB(platformdb.LoadConfigFromEnv(), cfg.RunMigrations)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if rcfg := infraredis.LoadConfig(); !rcfg.Enabled() {
		slog.Info("REDIS_HOST not set. Running without cache.")
	} else if tmp, err := infraredis.NewRedisClient(rcfg); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. The trades API is open to every client.")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// ルータ生成
	engine := router.NewRouter(router.Options{
		Trades:      di.NewTradeHandler(db, rdb, cfg.CacheTTL),
		Health:      platformhandler.NewHealthHandler(sqlDB),
		Logger:      slog.Default(),
		Metrics:     middleware.NewMetrics(cfg.MetricsNamespace),
		RateLimiter: limiter,
		JWTSecret:   cfg.JWTSecret,
		CORSEnabled: cfg.CORSEnabled,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
