package holdcache

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hold:slot:"

// removeIfOwned deletes the marker only while it holds the caller's token.
var removeIfOwned = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

func Key(slotID uuid.UUID) string {
	return keyPrefix + slotID.String()
}

// RedisMarkers stores one key per live hold with the hold window as TTL.
type RedisMarkers struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisMarkers(client *redis.Client, logger *slog.Logger) *RedisMarkers {
	return &RedisMarkers{client: client, logger: logger}
}

// NewRedisClient parses REDIS_URL and pings the server once.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (m *RedisMarkers) Put(ctx context.Context, slotID uuid.UUID, ttl time.Duration) (string, error) {
	if ttl < time.Second {
		ttl = time.Second
	}
	token := uuid.NewString()
	if err := m.client.Set(ctx, Key(slotID), token, ttl.Truncate(time.Second)).Err(); err != nil {
		return "", infra.WrapRepoErr(m.logger, infra.KindCacheFailure, "failed to write hold marker", err)
	}
	return token, nil
}

func (m *RedisMarkers) Exists(ctx context.Context, slotID uuid.UUID) (bool, error) {
	n, err := m.client.Exists(ctx, Key(slotID)).Result()
	if err != nil {
		return false, infra.WrapRepoErr(m.logger, infra.KindCacheFailure, "failed to read hold marker", err)
	}
	return n > 0, nil
}

func (m *RedisMarkers) Remove(ctx context.Context, slotID uuid.UUID, token string) error {
	if err := removeIfOwned.Run(ctx, m.client, []string{Key(slotID)}, token).Err(); err != nil {
		return infra.WrapRepoErr(m.logger, infra.KindCacheFailure, "failed to delete hold marker", err)
	}
	return nil
}
