package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore persists sessions in Redis as JSON blobs with a TTL matching
// the session expiry, so Redis handles expiry sweeps itself. SessionState is
// process-external; this store lets multiple instances share it.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Create(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Token == "" {
		return ErrInvalid
	}
	return r.write(ctx, sess)
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}

	if sess.IsExpired() {
		_ = r.Delete(ctx, token)
		return nil, ErrExpired
	}

	return &sess, nil
}

func (r *RedisStore) Update(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Token == "" {
		return ErrInvalid
	}

	exists, err := r.client.Exists(ctx, redisKeyPrefix+sess.Token).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	return r.write(ctx, sess)
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, redisKeyPrefix+token).Err()
}

// DeleteExpired is a no-op: Redis evicts keys via their TTL.
func (r *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (r *RedisStore) write(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	return r.client.Set(ctx, redisKeyPrefix+sess.Token, data, ttl).Err()
}
