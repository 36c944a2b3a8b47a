package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"sentra/internal/domain/authz"
	"sentra/internal/shared/logger"
)

// SnapshotCache caches resolved PermissionSnapshots per user. Entries carry
// a short TTL with jitter (anti-stampede); mutations to roles, grants,
// assignments or branch access must invalidate the affected users before
// the mutation reports success, otherwise a client's next check could see a
// stale, over-permissive snapshot.
type SnapshotCache interface {
	Get(ctx context.Context, userID uint) (*authz.PermissionSnapshot, error)
	Set(ctx context.Context, snapshot *authz.PermissionSnapshot) error
	Invalidate(ctx context.Context, userID uint) error
	InvalidateMany(ctx context.Context, userIDs []uint) error
}

const (
	snapshotKeyPrefix = "authz:snapshot:"
)

// RedisSnapshotCache implements SnapshotCache on Redis.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	jitter time.Duration
	logger logger.Interface
}

func NewRedisSnapshotCache(client *redis.Client, ttl, jitter time.Duration, logger logger.Interface) *RedisSnapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisSnapshotCache{
		client: client,
		ttl:    ttl,
		jitter: jitter,
		logger: logger,
	}
}

func (c *RedisSnapshotCache) key(userID uint) string {
	return fmt.Sprintf("%s%d", snapshotKeyPrefix, userID)
}

func (c *RedisSnapshotCache) ttlWithJitter() time.Duration {
	if c.jitter <= 0 {
		return c.ttl
	}
	return c.ttl + rand.N(c.jitter)
}

// Get retrieves a cached snapshot. A cache miss returns (nil, nil).
func (c *RedisSnapshotCache) Get(ctx context.Context, userID uint) (*authz.PermissionSnapshot, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	var snapshot authz.PermissionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		c.logger.Warnw("dropping corrupt snapshot cache entry", "user_id", userID, "error", err)
		_ = c.client.Del(ctx, c.key(userID)).Err()
		return nil, nil
	}

	return &snapshot, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, snapshot *authz.PermissionSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.client.Set(ctx, c.key(snapshot.UserID), data, c.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot in cache: %w", err)
	}

	c.logger.Debugw("permission snapshot cached",
		"user_id", snapshot.UserID,
		"permissions", len(snapshot.Permissions),
	)

	return nil
}

func (c *RedisSnapshotCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot cache: %w", err)
	}

	c.logger.Debugw("permission snapshot cache invalidated", "user_id", userID)
	return nil
}

// InvalidateMany drops cached snapshots for a set of users in one round
// trip. Used when a role's grants change and every holder goes stale.
func (c *RedisSnapshotCache) InvalidateMany(ctx context.Context, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.key(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot caches: %w", err)
	}

	c.logger.Debugw("permission snapshot caches invalidated", "users", len(userIDs))
	return nil
}
