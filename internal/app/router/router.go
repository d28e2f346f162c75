// Package router はアプリケーションのHTTPルーティングを組み立てます。
package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	tradehandler "portfolio_backend/internal/feature/trades/transport/handler"
	platformhandler "portfolio_backend/internal/platform/http/handler"
	"portfolio_backend/internal/platform/http/middleware"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// Options はHTTPサーバーのハンドラーとミドルウェアをまとめます。
// nilの項目はインストールされません。
type Options struct {
	Trades *tradehandler.TradeHandler
	Health *platformhandler.HealthHandler

	Logger      *slog.Logger
	Metrics     *middleware.Metrics
	RateLimiter *middleware.RateLimiter

	// JWTSecret が空でなければ /api にBearer認証を適用します。
	JWTSecret string

	CORSEnabled bool
	// CORSOrigins は許可するオリジンです。空の場合はすべて許可します。
	CORSOrigins []string
}

// NewRouter は取引APIを提供するginエンジンを生成します。
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger))

	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	if opts.CORSEnabled {
		r.Use(newCORS(opts.CORSOrigins))
	}

	// 認証不要
	// 導通確認用
	if opts.Health != nil {
		r.GET("/healthz", opts.Health.Health)
		r.HEAD("/healthz", opts.Health.Health)
		r.OPTIONS("/healthz", opts.Health.Health)
	}
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// 取引API
	// JWT_SECRETが設定されている場合のみ認証必須とする
	api := r.Group("/api")
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Handler())
	}
	if opts.JWTSecret != "" {
		api.Use(jwtmw.AuthRequired(opts.JWTSecret))
	}
	if opts.Trades != nil {
		opts.Trades.Register(api)
	}

	return r
}

func newCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
