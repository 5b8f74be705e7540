package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rmax-ai/budgetlord/pkg/engine"
)

const rootsSet = "budgetlord:rollup:roots"

// RollupCache stores computed spending rollups in Redis so repeated rollup
// queries for the same root category skip the graph walk and the SQL sum.
// Cache misses and Redis errors both report "not cached"; the daemon then
// recomputes, so the cache is never load-bearing.
type RollupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRollupCache wraps an existing Redis client. A zero ttl means entries
// never expire and are only replaced by newer rollups.
func NewRollupCache(client *redis.Client, ttl time.Duration) *RollupCache {
	return &RollupCache{client: client, ttl: ttl}
}

func (c *RollupCache) makeKey(rootID int64) string {
	return fmt.Sprintf("budgetlord:rollup:%d", rootID)
}

// Set caches a rollup result keyed by its root category.
func (c *RollupCache) Set(ctx context.Context, res *engine.RollupResult) {
	key := c.makeKey(res.RootID)
	data, err := json.Marshal(res)
	if err != nil {
		log.Printf("Failed to marshal RollupResult: %v", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("Failed to SET key %s: %v", key, err)
		return
	}
	if err := c.client.SAdd(ctx, rootsSet, key).Err(); err != nil {
		log.Printf("Failed to SADD key %s to set: %v", key, err)
	}
}

// Get returns the cached rollup for rootID, if any.
func (c *RollupCache) Get(ctx context.Context, rootID int64) (*engine.RollupResult, bool) {
	key := c.makeKey(rootID)
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false
		}
		log.Printf("Failed to GET key %s: %v", key, err)
		return nil, false
	}
	var res engine.RollupResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		log.Printf("Failed to unmarshal RollupResult from key %s: %v", key, err)
		return nil, false
	}
	return &res, true
}

// Invalidate drops every cached rollup. Called after category links or
// transactions change, since any subtree total may be stale.
func (c *RollupCache) Invalidate(ctx context.Context) {
	keys, err := c.client.SMembers(ctx, rootsSet).Result()
	if err != nil {
		log.Printf("Failed to SMEMBERS %s: %v", rootsSet, err)
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Printf("Failed to DEL cached rollups: %v", err)
		}
	}
	if err := c.client.Del(ctx, rootsSet).Err(); err != nil {
		log.Printf("Failed to DEL %s: %v", rootsSet, err)
	}
}
