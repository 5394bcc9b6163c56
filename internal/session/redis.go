package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"StockTrend/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisStore keeps sessions as JSON strings with a sliding TTL, so several
// server replicas can share them.
type RedisStore struct {
	cli    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	cli := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisStore(cli, cfg), nil
}

func newRedisStore(cli *redis.Client, cfg RedisConfig) *RedisStore {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{cli: cli, prefix: cfg.Prefix, ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (models.UserQuery, error) {
	b, err := r.cli.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.UserQuery{}, ErrNotFound
		}
		return models.UserQuery{}, fmt.Errorf("redis get session: %w", err)
	}

	var q models.UserQuery
	if err := json.Unmarshal(b, &q); err != nil {
		return models.UserQuery{}, fmt.Errorf("decode session: %w", err)
	}
	// sliding expiry; a failure here only shortens the session
	_ = r.cli.Expire(ctx, r.key(id), r.ttl).Err()
	return q, nil
}

func (r *RedisStore) Put(ctx context.Context, id string, q models.UserQuery) error {
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.cli.Set(ctx, r.key(id), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.cli.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.cli.Close()
}
