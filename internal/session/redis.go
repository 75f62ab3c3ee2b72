package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"amumal/internal/models"
	"amumal/internal/observability"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps session records in Redis, one JSON blob per session ID.
// Records carry no TTL; a session stays valid for as long as it exists.
type RedisStore struct {
	client *redis.Client
}

// Connect dials Redis at addr (host:port or a redis:// URL) and returns a
// store, or nil when Redis is unreachable so the caller can fall back to the
// in-memory store.
func Connect(addr string) *RedisStore {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (falling back to in-memory sessions)", addr, err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (falling back to in-memory sessions)", err)
		return nil
	}
	log.Println("Redis connected successfully")
	return &RedisStore{client: client}
}

// NewRedisStore wraps an existing client; used by tests running miniredis.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Save(ctx context.Context, sid string, partial map[string]any) error {
	key := keyPrefix + sid
	stored, err := s.client.Get(ctx, key).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		observability.SessionOps.WithLabelValues("save", "error").Inc()
		return err
	}

	merged, err := mergeRaw(ctx, stored, partial)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key, merged, 0).Err(); err != nil {
		observability.SessionOps.WithLabelValues("save", "error").Inc()
		return err
	}
	observability.SessionOps.WithLabelValues("save", "ok").Inc()
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sid string) (*models.SessionRecord, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		observability.SessionOps.WithLabelValues("load", "error").Inc()
		return nil, err
	}
	observability.SessionOps.WithLabelValues("load", "ok").Inc()
	return decodeRecord(ctx, raw), nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, keyPrefix+sid).Err(); err != nil {
		observability.SessionOps.WithLabelValues("clear", "error").Inc()
		return err
	}
	observability.SessionOps.WithLabelValues("clear", "ok").Inc()
	return nil
}
