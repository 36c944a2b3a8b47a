package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"sentra/internal/shared/logger"
)

// ActiveScopeStore holds each user's currently selected branch. A zero
// branch ID means no branch is selected and branch-scoped operations must
// prompt for a selection first.
type ActiveScopeStore interface {
	GetActiveBranch(ctx context.Context, userID uint) (uint, error)
	SetActiveBranch(ctx context.Context, userID, branchID uint) error
	ClearActiveBranch(ctx context.Context, userID uint) error
}

const (
	activeBranchKeyPrefix = "session:active_branch:"
	activeBranchTTL       = 24 * time.Hour
)

// RedisActiveScopeStore implements ActiveScopeStore on Redis.
type RedisActiveScopeStore struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisActiveScopeStore(client *redis.Client, logger logger.Interface) *RedisActiveScopeStore {
	return &RedisActiveScopeStore{
		client: client,
		logger: logger,
	}
}

func (s *RedisActiveScopeStore) key(userID uint) string {
	return fmt.Sprintf("%s%d", activeBranchKeyPrefix, userID)
}

func (s *RedisActiveScopeStore) GetActiveBranch(ctx context.Context, userID uint) (uint, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get active branch: %w", err)
	}

	branchID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("corrupt active branch value %q: %w", val, err)
	}

	return uint(branchID), nil
}

func (s *RedisActiveScopeStore) SetActiveBranch(ctx context.Context, userID, branchID uint) error {
	if err := s.client.Set(ctx, s.key(userID), strconv.FormatUint(uint64(branchID), 10), activeBranchTTL).Err(); err != nil {
		return fmt.Errorf("failed to set active branch: %w", err)
	}

	s.logger.Debugw("active branch updated", "user_id", userID, "branch_id", branchID)
	return nil
}

func (s *RedisActiveScopeStore) ClearActiveBranch(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear active branch: %w", err)
	}
	return nil
}
