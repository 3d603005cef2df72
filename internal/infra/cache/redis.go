package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// CachedDecision is the material needed to rebuild an Allow decision
// without re-verifying the token. Denials are never cached.
type CachedDecision struct {
	PrincipalID string         `json:"principal_id"`
	Resource    string         `json:"resource"`
	Context     map[string]any `json:"context"`
}

type DecisionCache interface {
	Get(ctx context.Context, credHash string) (*CachedDecision, error)
	Set(ctx context.Context, credHash string, value *CachedDecision, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisClient(url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opt.PoolSize = poolSize

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewDecisionCache(client *redis.Client) DecisionCache {
	return &redisCache{client: client}
}

func (r *redisCache) Get(ctx context.Context, credHash string) (*CachedDecision, error) {
	key := fmt.Sprintf("authz:decision:%s", credHash)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var decision CachedDecision
	if err := json.Unmarshal([]byte(val), &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached decision: %w", err)
	}

	return &decision, nil
}

func (r *redisCache) Set(ctx context.Context, credHash string, value *CachedDecision, ttl time.Duration) error {
	key := fmt.Sprintf("authz:decision:%s", credHash)
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cached decision: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set redis cache: %w", err)
	}

	return nil
}
