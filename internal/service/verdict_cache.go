package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/redis/go-redis/v9"
)

// RedisVerdictCache keeps verdicts in redis under
// safety:verdict:<recipe id>:<verdict hash>, where the hash covers the
// recipe's ingredients and the profile (see VerdictHash).
type RedisVerdictCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ VerdictCache = (*RedisVerdictCache)(nil)

// NewRedisVerdictCache creates a new RedisVerdictCache instance
func NewRedisVerdictCache(client *redis.Client, ttl time.Duration) *RedisVerdictCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisVerdictCache{client: client, ttl: ttl}
}

func verdictKey(recipeID, inputHash string) string {
	return fmt.Sprintf("safety:verdict:%s:%s", recipeID, inputHash)
}

func (c *RedisVerdictCache) Get(ctx context.Context, recipeID, inputHash string) (*safety.SafetyVerdict, bool, error) {
	data, err := c.client.Get(ctx, verdictKey(recipeID, inputHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get verdict from Redis: %w", err)
	}

	var verdict safety.SafetyVerdict
	if err := json.Unmarshal(data, &verdict); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	return &verdict, true, nil
}

func (c *RedisVerdictCache) Set(ctx context.Context, recipeID, inputHash string, verdict *safety.SafetyVerdict) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	if err := c.client.Set(ctx, verdictKey(recipeID, inputHash), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save verdict to Redis: %w", err)
	}
	return nil
}
