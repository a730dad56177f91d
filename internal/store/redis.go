package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anxmeshhh/PrepIQ/internal/model"
)

// RedisStore keeps sessions in Redis with a native TTL refreshed on
// every write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(id string) string {
	return "interview:session:" + id
}

func (s *RedisStore) Put(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
