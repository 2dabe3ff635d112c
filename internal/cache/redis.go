package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mervekc/flight-booking/config"
	"github.com/mervekc/flight-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    redis.Cmdable
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

// NewRedisCacheWithClient exists for tests.
func NewRedisCacheWithClient(client redis.Cmdable, searchTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, searchTTL: searchTTL}
}

// GetFlightSearch returns the cached result for a search key, or nil on a
// cache miss.
func (c *RedisCache) GetFlightSearch(ctx context.Context, key string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, searchCacheKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlightSearch(ctx context.Context, key string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchCacheKey(key), payload, c.searchTTL).Err()
}

func searchCacheKey(key string) string {
	return "cache:flights:search:" + key
}
