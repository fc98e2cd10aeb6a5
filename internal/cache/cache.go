// cache - необязательный Redis-кэш отозванных access-токенов.
// Источник истины остаётся в БД; кэш лишь сокращает путь проверки отзыва.
package cache

//go:generate mockgen -source=cache.go -destination=../../mocks/mock_cache.go -package=mocks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix - префикс ключей по умолчанию.
const DefaultPrefix = "auth:bl:"

// BlacklistCache - контракт кэша отзывов.
type BlacklistCache interface {
	// IsRevoked сообщает, есть ли токен в кэше отзывов.
	IsRevoked(ctx context.Context, access string) (bool, error)
	// MarkRevoked кладёт токен в кэш на ttl (обычно остаток жизни access-токена).
	MarkRevoked(ctx context.Context, access string, userID int64, ttl time.Duration) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой - используется DefaultPrefix.
func NewRedisCache(ctx context.Context, redisURL, prefix string) (BlacklistCache, error) {
	const op = "cache.NewRedisCache"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return New(rdb, prefix), nil
}

// New оборачивает готовый клиент.
func New(rdb *redis.Client, prefix string) BlacklistCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &redisCache{rdb: rdb, prefix: prefix}
}

// key строится по SHA-256 токена, сам токен в Redis не попадает.
func (c *redisCache) key(access string) string {
	sum := sha256.Sum256([]byte(access))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *redisCache) IsRevoked(ctx context.Context, access string) (bool, error) {
	const op = "cache.IsRevoked"

	n, err := c.rdb.Exists(ctx, c.key(access)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

// MarkRevoked хранит запись как Redis Hash с полями uid и at (unix).
// Неположительный ttl означает, что токен уже истёк и кэшировать нечего.
func (c *redisCache) MarkRevoked(ctx context.Context, access string, userID int64, ttl time.Duration) error {
	const op = "cache.MarkRevoked"

	if ttl <= 0 {
		return nil
	}

	k := c.key(access)
	kv := map[string]string{
		"uid": strconv.FormatInt(userID, 10),
		"at":  strconv.FormatInt(time.Now().Unix(), 10),
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, k, kv)
	pipe.Expire(ctx, k, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *redisCache) Close() error { return c.rdb.Close() }
