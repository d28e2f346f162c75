// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	tradeadapters "portfolio_backend/internal/feature/trades/adapters"
	tradehandler "portfolio_backend/internal/feature/trades/transport/handler"
	"portfolio_backend/internal/feature/trades/usecase"
	"portfolio_backend/internal/platform/cache"
)

// tradeCacheNamespace prefixes every Redis key written for trades.
const tradeCacheNamespace = "trades"

// NewTradeRepository creates a TradeRepository implementation.
// If Redis is available, the database repository is wrapped in a Redis cache.
// Otherwise, it talks to the database directly.
func NewTradeRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.TradeRepository {
	repo := tradeadapters.NewTradeRepository(db)
	if rdb != nil {
		return cache.NewCachingTradeRepository(rdb, ttl, repo, tradeCacheNamespace)
	}
	return repo
}

// NewTradeUsecase creates the trade usecase on top of NewTradeRepository.
func NewTradeUsecase(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *usecase.TradeUsecase {
	return usecase.NewTradeUsecase(NewTradeRepository(db, rdb, ttl))
}

// NewTradeHandler creates a fully wired TradeHandler.
func NewTradeHandler(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *tradehandler.TradeHandler {
	return tradehandler.NewTradeHandler(NewTradeUsecase(db, rdb, ttl))
}
