// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/feature/trades/domain/entity"
	"portfolio_backend/internal/feature/trades/usecase"
)

// CachingTradeRepository decorates a TradeRepository with Redis caching.
// Single trades, the symbol list and query results are cached; every write
// drops the symbol list and all cached queries.
type CachingTradeRepository struct {
	inner     usecase.TradeRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TradeRepository = (*CachingTradeRepository)(nil)

// NewCachingTradeRepository decorates a TradeRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "trades".
func NewCachingTradeRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TradeRepository, namespace string) *CachingTradeRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "trades"
	}
	return &CachingTradeRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the trade and invalidates list-level cache entries.
func (c *CachingTradeRepository) Create(ctx context.Context, t *entity.Trade) error {
	if err := c.inner.Create(ctx, t); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindByID checks the cache first, then falls back to the database.
// Misses are not cached.
func (c *CachingTradeRepository) FindByID(ctx context.Context, id uint) (*entity.Trade, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.tradeKey(id)
	var cached entity.Trade
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	t, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, t)
	return t, nil
}

// Update writes through and drops the cached copy of the trade.
func (c *CachingTradeRepository) Update(ctx context.Context, t *entity.Trade) error {
	if err := c.inner.Update(ctx, t); err != nil {
		return err
	}
	c.invalidate(ctx, t.ID)
	return nil
}

// Delete removes the trade and its cached copy.
func (c *CachingTradeRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// Find caches each distinct filter and window.
func (c *CachingTradeRepository) Find(ctx context.Context, f entity.TradeFilter, limit, offset int) ([]entity.Trade, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, f, limit, offset)
	}

	key := c.queryKey("find", f, limit, offset)
	var cached []entity.Trade
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.Find(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// Count caches the number of matches per filter.
func (c *CachingTradeRepository) Count(ctx context.Context, f entity.TradeFilter) (int64, error) {
	if c.rdb == nil {
		return c.inner.Count(ctx, f)
	}

	key := c.queryKey("count", f, 0, 0)
	var cached int64
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	n, err := c.inner.Count(ctx, f)
	if err != nil {
		return 0, err
	}
	c.store(ctx, key, n)
	return n, nil
}

// DistinctSymbols returns the cached symbol list, loading it on a miss.
func (c *CachingTradeRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	if c.rdb == nil {
		return c.inner.DistinctSymbols(ctx)
	}

	key := c.symbolsKey()
	var cached []string
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.DistinctSymbols(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// load decodes the cached value at key into dst. Corrupted entries are deleted.
func (c *CachingTradeRepository) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store caches v at key (best effort).
func (c *CachingTradeRepository) store(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate drops the given trades, the symbol list and every cached query.
func (c *CachingTradeRepository) invalidate(ctx context.Context, ids ...uint) {
	if c.rdb == nil {
		return
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, c.tradeKey(id))
	}
	keys = append(keys, c.symbolsKey())
	// Best effort: don't fail if cache deletion fails
	_ = c.rdb.Del(ctx, keys...).Err()
	_ = c.deleteByPattern(ctx, c.queryPrefix()+"*")
}

func (c *CachingTradeRepository) tradeKey(id uint) string {
	return fmt.Sprintf("%s:trade:%d", c.namespace, id)
}

func (c *CachingTradeRepository) symbolsKey() string {
	return c.namespace + ":symbols"
}

func (c *CachingTradeRepository) queryPrefix() string {
	return c.namespace + ":q:"
}

// queryKey generates a cache key for a filtered query.
// Search text is query-escaped so distinct searches never share a key.
func (c *CachingTradeRepository) queryKey(kind string, f entity.TradeFilter, limit, offset int) string {
	return fmt.Sprintf("%s%s:%s:%s:%s:%s:%s:%d:%d",
		c.queryPrefix(),
		kind,
		safe(f.Symbol),
		safe(string(f.Side)),
		dayKey(f.StartDate),
		dayKey(f.EndDate),
		url.QueryEscape(f.Search),
		limit,
		offset,
	)
}

func dayKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingTradeRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
