package repo

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	"github.com/ksa-shopping-ranker/server/internal/agent/tools"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

// RedisSearchCache stores search tool responses keyed by query+limit for a
// short TTL. It caches tool output only, never request state, so requests stay
// stateless. Every failure degrades to a cache miss.
type RedisSearchCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSearchCache(rdb redis.Cmdable, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{rdb: rdb, ttl: ttl}
}

func (c *RedisSearchCache) searchKey(query string, limit int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%d", query, limit)))
	return fmt.Sprintf("search:%s:offers", hex.EncodeToString(sum[:]))
}

func (c *RedisSearchCache) Get(ctx context.Context, query string, limit int) ([]*model.Offer, bool) {
	key := c.searchKey(query, limit)

	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logx.Warn().Err(err).Str("key", key).Msg("search cache read failed")
		}
		return nil, false
	}

	var offers []*model.Offer
	if err := json.Unmarshal([]byte(raw), &offers); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("search cache entry corrupt; dropping")
		c.rdb.Del(ctx, key)
		return nil, false
	}
	return offers, true
}

func (c *RedisSearchCache) Put(ctx context.Context, query string, limit int, offers []*model.Offer) {
	b, err := json.Marshal(offers)
	if err != nil {
		logx.Warn().Err(err).Msg("search cache marshal failed")
		return
	}

	key := c.searchKey(query, limit)
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("search cache write failed")
	}
}

var _ tools.SearchCache = (*RedisSearchCache)(nil)
