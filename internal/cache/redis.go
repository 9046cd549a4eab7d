package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Domenick1991/cruisebooking/config"
	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     redis.Cmdable
	cruisesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, cruisesTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		cruisesTTL,
	)
}

func NewRedisCacheWithClient(client redis.Cmdable, cruisesTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, cruisesTTL: cruisesTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

type cruisesEntry struct {
	Version int64           `json:"version"`
	Cruises []domain.Cruise `json:"cruises"`
}

// CruisesVersion returns the catalog generation, 0 before the first invalidation.
func (c *RedisCache) CruisesVersion(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, cruisesVersionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// GetCruises returns (nil, nil) on a cache miss or when the stored list
// belongs to an older version.
func (c *RedisCache) GetCruises(ctx context.Context) ([]domain.Cruise, error) {
	vals, err := c.client.MGet(ctx, cruisesKey(), cruisesVersionKey()).Result()
	if err != nil {
		return nil, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, nil
	}

	var entry cruisesEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}
	current, err := parseVersion(vals[1])
	if err != nil {
		return nil, err
	}
	if entry.Version != current || entry.Cruises == nil {
		return nil, nil
	}
	return entry.Cruises, nil
}

func (c *RedisCache) SetCruises(ctx context.Context, version int64, cruises []domain.Cruise) error {
	if cruises == nil {
		cruises = []domain.Cruise{}
	}
	payload, err := json.Marshal(cruisesEntry{Version: version, Cruises: cruises})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cruisesKey(), payload, c.cruisesTTL).Err()
}

// InvalidateCruises bumps the version first, so a list computed before the
// bump is rejected even if it is written after the delete.
func (c *RedisCache) InvalidateCruises(ctx context.Context) error {
	if err := c.client.Incr(ctx, cruisesVersionKey()).Err(); err != nil {
		return err
	}
	return c.client.Del(ctx, cruisesKey()).Err()
}

func parseVersion(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// RevokeToken blacklists a token id until it would have expired anyway.
func (c *RedisCache) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, revokedTokenKey(tokenID), "1", ttl).Err()
}

func (c *RedisCache) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, revokedTokenKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func cruisesKey() string {
	return "cache:cruises"
}

func cruisesVersionKey() string {
	return "cache:cruises:version"
}

func revokedTokenKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
