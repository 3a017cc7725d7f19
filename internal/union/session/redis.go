package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures talking to redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisBackend stores each session as a hash under Prefix:key. A positive TTL
// is applied as the key expiry; zero leaves keys until logout.
type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = "aupwu:session"
	}
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

func (b *RedisBackend) key(k string) string {
	return b.prefix + ":" + k
}

func (b *RedisBackend) Save(ctx context.Context, key string, id domain.Identity) error {
	k := b.key(key)

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			"user_id", strconv.FormatInt(id.ID, 10),
			"username", id.Username,
			"role", id.Role.String(),
		)
		if b.ttl > 0 {
			pipe.Expire(ctx, k, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) (domain.Identity, error) {
	fields, err := b.client.HGetAll(ctx, b.key(key)).Result()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return domain.Identity{}, ErrNoSession
	}

	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("session: corrupt user_id: %w", err)
	}
	role, err := domain.ParseRole(fields["role"])
	if err != nil {
		return domain.Identity{}, fmt.Errorf("session: %w", err)
	}

	return domain.Identity{ID: userID, Username: fields["username"], Role: role}, nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
