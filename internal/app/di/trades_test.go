package di

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio_backend/internal/platform/cache"
)

func TestNewTradeRepository(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	t.Run("without redis", func(t *testing.T) {
		t.Parallel()

		repo := NewTradeRepository(db, nil, 0)
		_, cached := repo.(*cache.CachingTradeRepository)
		assert.False(t, cached)
	})

	t.Run("with redis", func(t *testing.T) {
		t.Parallel()

		rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
		t.Cleanup(func() { _ = rdb.Close() })

		repo := NewTradeRepository(db, rdb, 0)
		_, cached := repo.(*cache.CachingTradeRepository)
		assert.True(t, cached)
	})

	t.Run("handler", func(t *testing.T) {
		t.Parallel()

		assert.NotNil(t, NewTradeHandler(db, nil, 0))
	})
}
