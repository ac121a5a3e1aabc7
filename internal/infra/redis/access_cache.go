package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// GrantCache keeps positive access grants in Redis so paid-quiz views skip
// the purchases table on the hot path. Only positive entries are cached:
// a miss always falls through to the persistent store.
type GrantCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGrantCache(client *redis.Client, ttl time.Duration) *GrantCache {
	return &GrantCache{client: client, ttl: ttl}
}

func (c *GrantCache) Granted(ctx context.Context, userID, quizID string) bool {
	n, err := c.client.Exists(ctx, c.key(userID, quizID)).Result()
	return err == nil && n > 0
}

func (c *GrantCache) Remember(ctx context.Context, userID, quizID string) {
	// best-effort marker
	_ = c.client.Set(ctx, c.key(userID, quizID), "1", c.ttl).Err()
}

func (c *GrantCache) key(userID, quizID string) string {
	return "access:" + userID + ":" + quizID
}
