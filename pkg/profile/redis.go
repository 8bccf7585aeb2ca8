package profile

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis-backed store. Fields carry env tags so
// the struct can be populated through the config loader.
type RedisConfig struct {
	ConnectionURL  string        `env:"PROFILE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix      string        `env:"PROFILE_REDIS_KEY_PREFIX" envDefault:"profile"`
	TTL            time.Duration `env:"PROFILE_REDIS_TTL" envDefault:"0"` // 0 keeps assignments forever
	RetryAttempts  int           `env:"PROFILE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"PROFILE_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"PROFILE_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// ConnectRedis establishes a Redis connection with bounded retries, pinging
// the server before handing the client out.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidRedisURL, err)
	}

	for i := 0; i < cfg.RetryAttempts; i++ {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrRedisNotReady
}

// RedisStore keeps one hash per user: field = experiment id, value =
// variation id. With a TTL configured the whole profile expires together,
// refreshed on every save.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an established client. The client's lifecycle stays
// with the caller.
func NewRedisStore(client redis.UniversalClient, cfg RedisConfig) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "profile"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: cfg.TTL}
}

func (r *RedisStore) key(userID string) string {
	return r.prefix + ":" + userID
}

// Lookup fetches the whole profile hash.
func (r *RedisStore) Lookup(ctx context.Context, userID string) (map[string]string, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	stored, err := r.client.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, ErrNotFound
	}
	return stored, nil
}

// Save writes one field of the profile hash and refreshes the TTL.
func (r *RedisStore) Save(ctx context.Context, userID, experimentID, variationID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	key := r.key(userID)
	if err := r.client.HSet(ctx, key, experimentID, variationID).Err(); err != nil {
		return err
	}
	if r.ttl > 0 {
		return r.client.Expire(ctx, key, r.ttl).Err()
	}
	return nil
}
