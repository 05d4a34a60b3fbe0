package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"learnpath/backend/models"
	"learnpath/backend/utils"
)

// VideoCache stores live video search results per topic. Misses and backend errors
// look the same to callers.
type VideoCache interface {
	Get(ctx context.Context, topic string) ([]models.VideoRef, bool)
	Set(ctx context.Context, topic string, refs []models.VideoRef)
}

type RedisVideoCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *utils.Logger
}

// NewRedisVideoCache connects to addr and pings it once.
func NewRedisVideoCache(ctx context.Context, addr string, ttl time.Duration, log *utils.Logger) (*RedisVideoCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisVideoCacheWithClient(rdb, ttl, log), nil
}

func NewRedisVideoCacheWithClient(rdb *goredis.Client, ttl time.Duration, log *utils.Logger) *RedisVideoCache {
	return &RedisVideoCache{rdb: rdb, ttl: ttl, log: log.With("component", "RedisVideoCache")}
}

func Key(topic string) string {
	return "learnpath:videos:" + strings.ToLower(strings.TrimSpace(topic))
}

func (c *RedisVideoCache) Get(ctx context.Context, topic string) ([]models.VideoRef, bool) {
	raw, err := c.rdb.Get(ctx, Key(topic)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("video cache read failed", "topic", topic, "error", err)
		}
		return nil, false
	}
	var refs []models.VideoRef
	if err := json.Unmarshal(raw, &refs); err != nil {
		c.log.Warn("video cache entry corrupt", "topic", topic, "error", err)
		return nil, false
	}
	return refs, true
}

func (c *RedisVideoCache) Set(ctx context.Context, topic string, refs []models.VideoRef) {
	raw, err := json.Marshal(refs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, Key(topic), raw, c.ttl).Err(); err != nil {
		c.log.Warn("video cache write failed", "topic", topic, "error", err)
	}
}

func (c *RedisVideoCache) Close() error {
	return c.rdb.Close()
}
