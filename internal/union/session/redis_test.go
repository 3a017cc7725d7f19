package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisBackend(t *testing.T, ttl time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisBackend(rdb, "test", ttl), mr
}

func TestRedisBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, time.Hour)

	id := domain.Identity{ID: 42, Username: "carol", Role: domain.RoleOfficer}
	require.NoError(t, b.Save(ctx, "k1", id))

	require.True(t, mr.Exists("test:k1"))
	require.Equal(t, time.Hour, mr.TTL("test:k1"))
	require.Equal(t, "officer", mr.HGet("test:k1", "role"))

	got, err := b.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, id, got)

	require.NoError(t, b.Delete(ctx, "k1"))
	require.NoError(t, b.Delete(ctx, "k1"))

	_, err = b.Get(ctx, "k1")
	require.ErrorIs(t, err, ErrNoSession)
	require.NoError(t, b.Ping(ctx))
}

func TestRedisBackendExpiry(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, time.Minute)

	require.NoError(t, b.Save(ctx, "k", domain.Identity{ID: 1, Username: "a", Role: domain.RoleMember}))
	mr.FastForward(2 * time.Minute)

	_, err := b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestRedisBackendNoTTL(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, 0)

	require.NoError(t, b.Save(ctx, "k", domain.Identity{ID: 1, Username: "a", Role: domain.RoleMember}))
	require.Zero(t, mr.TTL("test:k"))
}

func TestRedisBackendCorruptRecord(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, 0)

	mr.HSet("test:bad", "user_id", "1", "username", "x", "role", "root")
	_, err := b.Get(ctx, "bad")
	require.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestRedisBackendUnavailable(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, 0)
	mr.Close()

	err := b.Save(ctx, "k", domain.Identity{ID: 1, Username: "a", Role: domain.RoleMember})
	require.ErrorIs(t, err, ErrRedisUnavailable)
	require.Error(t, b.Ping(ctx))
}
