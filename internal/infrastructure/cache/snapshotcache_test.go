package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentra/internal/domain/authz"
	"sentra/internal/shared/logger"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testSnapshot(userID uint) *authz.PermissionSnapshot {
	s := authz.EmptySnapshot(userID)
	s.RoleSlugs = []string{authz.RoleSlugEmployee}
	s.PrimaryRoleSlug = authz.RoleSlugEmployee
	s.Permissions["inventory:view"] = true
	s.BranchIDs = []uint{1, 2}
	return s
}

func TestSnapshotCache_SetAndGet(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisSnapshotCache(client, 5*time.Minute, 0, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testSnapshot(42)))

	got, err := c.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(42), got.UserID)
	assert.Equal(t, authz.RoleSlugEmployee, got.PrimaryRoleSlug)
	assert.True(t, got.Permissions["inventory:view"])
	assert.Equal(t, []uint{1, 2}, got.BranchIDs)
}

func TestSnapshotCache_MissReturnsNil(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisSnapshotCache(client, 5*time.Minute, 0, logger.NewLogger())

	got, err := c.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCache_SetAppliesTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisSnapshotCache(client, 5*time.Minute, 0, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testSnapshot(42)))

	ttl := mr.TTL("authz:snapshot:42")
	assert.Equal(t, 5*time.Minute, ttl)

	mr.FastForward(6 * time.Minute)
	got, err := c.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCache_Invalidate(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisSnapshotCache(client, 5*time.Minute, 0, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testSnapshot(42)))
	require.NoError(t, c.Invalidate(ctx, 42))

	got, err := c.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCache_InvalidateMany(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisSnapshotCache(client, 5*time.Minute, 0, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testSnapshot(1)))
	require.NoError(t, c.Set(ctx, testSnapshot(2)))
	require.NoError(t, c.Set(ctx, testSnapshot(3)))

	require.NoError(t, c.InvalidateMany(ctx, []uint{1, 3}))

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.Get(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = c.Get(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCache_CorruptEntryTreatedAsMiss(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisSnapshotCache(client, 5*time.Minute, 0, logger.NewLogger())

	mr.Set("authz:snapshot:42", "{not json")

	got, err := c.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("authz:snapshot:42"))
}

func TestActiveScopeStore_RoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisActiveScopeStore(client, logger.NewLogger())
	ctx := context.Background()

	branchID, err := s.GetActiveBranch(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, branchID)

	require.NoError(t, s.SetActiveBranch(ctx, 42, 3))

	branchID, err = s.GetActiveBranch(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, uint(3), branchID)

	require.NoError(t, s.ClearActiveBranch(ctx, 42))

	branchID, err = s.GetActiveBranch(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, branchID)
}
