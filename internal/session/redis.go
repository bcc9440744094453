package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// RedisStore keeps sessions in redis, so they survive restarts and can be shared between
// several instances of the service.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient connects to a redis server.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func redisKey(id string) string {
	return "session:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.User, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get session")
	}
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	return &user, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, user *model.User, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, redisKey(id), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set session")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return errors.Wrap(err, "redis delete session")
	}
	return nil
}
