// internal/caching/plan_cache.go
package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"primeplus-service/internal/domain/plan"

	"github.com/redis/go-redis/v9"
)

// PlanCache is a read-through cache in front of the plan registry's hottest
// read path. A miss returns (nil, nil); cache failures are reported so the
// caller can fall back to the store.
type PlanCache interface {
	GetPlan(ctx context.Context, id string) (*plan.Plan, error)
	SetPlan(ctx context.Context, p *plan.Plan) error
	DeletePlan(ctx context.Context, id string) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) PlanCache {
	return &redisPlanCache{client: client, ttl: ttl}
}

func planKey(id string) string {
	return fmt.Sprintf("plan:%s", id)
}

func (c *redisPlanCache) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	data, err := c.client.Get(ctx, planKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan from cache: %w", err)
	}

	var p plan.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode cached plan: %w", err)
	}
	return &p, nil
}

func (c *redisPlanCache) SetPlan(ctx context.Context, p *plan.Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan for cache: %w", err)
	}

	if err := c.client.Set(ctx, planKey(p.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache plan: %w", err)
	}
	return nil
}

func (c *redisPlanCache) DeletePlan(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, planKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached plan: %w", err)
	}
	return nil
}
