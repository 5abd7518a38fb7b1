package cache

import (
	"context"
	"encoding/json"
	"time"

	"aeps-agent.backend/internal/domain/entities"
	"aeps-agent.backend/pkg/redis"
)

// RedisBankCache stores the partner bank list as JSON in Redis
type RedisBankCache struct{}

func NewRedisBankCache() *RedisBankCache {
	return &RedisBankCache{}
}

func (c *RedisBankCache) Get(ctx context.Context, key string) ([]entities.Bank, bool, error) {
	raw, err := redis.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var banks []entities.Bank
	if err := json.Unmarshal([]byte(raw), &banks); err != nil {
		return nil, false, err
	}
	return banks, true, nil
}

func (c *RedisBankCache) Set(ctx context.Context, key string, banks []entities.Bank, ttl time.Duration) error {
	data, err := json.Marshal(banks)
	if err != nil {
		return err
	}
	return redis.Set(ctx, key, data, ttl)
}

func (c *RedisBankCache) Delete(ctx context.Context, key string) error {
	return redis.Del(ctx, key)
}
