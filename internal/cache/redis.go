package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/shahair/config"
	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	airportsTTL time.Duration
	searchTTL   time.Duration
}

func NewRedisCache(cfg config.RedisConfig, airportsTTL, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		airportsTTL: airportsTTL,
		searchTTL:   searchTTL,
	}
}

func (c *RedisCache) GetAirports(ctx context.Context) ([]domain.Airport, error) {
	data, err := c.client.Get(ctx, airportsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var airports []domain.Airport
	if err := json.Unmarshal(data, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

func (c *RedisCache) SetAirports(ctx context.Context, airports []domain.Airport) error {
	payload, err := json.Marshal(airports)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airportsKey(), payload, c.airportsTTL).Err()
}

func (c *RedisCache) GetSearch(ctx context.Context, source, destination, date string) ([]domain.FlightAvailability, error) {
	data, err := c.client.Get(ctx, searchKey(source, destination, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var results []domain.FlightAvailability
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, source, destination, date string, results []domain.FlightAvailability) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(source, destination, date), payload, c.searchTTL).Err()
}

// InvalidateSearch drops the cached availability for a route/date after a
// booking changes the seat count.
func (c *RedisCache) InvalidateSearch(ctx context.Context, source, destination, date string) error {
	return c.client.Del(ctx, searchKey(source, destination, date)).Err()
}

func airportsKey() string {
	return "cache:airports"
}

func searchKey(source, destination, date string) string {
	return fmt.Sprintf("cache:flights:%s:%s:%s", source, destination, date)
}
