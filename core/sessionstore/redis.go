package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gymdesk/authkit/core/session"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	ConnectionURL  string        `env:"AUTH_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"AUTH_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"AUTH_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"AUTH_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// ConnectRedis creates a Redis client from the config and verifies
// connectivity with a ping, retrying transient failures before giving up.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrRedisConnString, err)
	}

	client := redis.NewClient(opts)

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	var pingErr error
	for i := 0; i < attempts; i++ {
		if pingErr = client.Ping(ctx).Err(); pingErr == nil {
			return client, nil
		}
		select {
		case <-ctx.Done():
			client.Close()
			return nil, errors.Join(ErrRedisNotReady, pingErr, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	client.Close()
	return nil, errors.Join(ErrRedisNotReady, pingErr)
}

// Redis stores the session as a single JSON value under one key, so the
// whole record replaces and clears atomically. The key TTL is pinned to
// the session deadline; Redis drops stale sessions on its own.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis-backed store scoped to the given key. Every
// station sharing the key shares the session.
func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = "authkit:session"
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Load(ctx context.Context) (*session.Session, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, session.ErrNotFound
	}

	return &sess, nil
}

func (r *Redis) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return session.ErrNilSession
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Join(session.ErrSaveSession, err)
	}

	ttl := time.Until(sess.Deadline())
	if ttl <= 0 {
		// Already stale; storing it would resurrect an expired session.
		return errors.Join(session.ErrSaveSession, ErrSessionStale)
	}

	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return errors.Join(session.ErrSaveSession, err)
	}

	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return errors.Join(session.ErrClearSession, err)
	}
	return nil
}
