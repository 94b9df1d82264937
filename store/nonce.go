package store

import (
	"context"
	"errors"
	"time"

	"github.com/Yulian302/lfusys-services-connections/health"
	"github.com/redis/go-redis/v9"
)

const NoncePrefix = "oauth:linkedin:nonce:"

// NonceStore records issued state nonces. Consume is single use: the second
// call for the same nonce reports not found.
type NonceStore interface {
	Save(ctx context.Context, nonce, userID string, ttl time.Duration) error
	Consume(ctx context.Context, nonce string) (userID string, found bool, err error)

	health.ReadinessCheck
}

type RedisNonceStore struct {
	client *redis.Client
}

func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{
		client: client,
	}
}

func (s *RedisNonceStore) Save(ctx context.Context, nonce, userID string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, NoncePrefix+nonce, userID, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("nonce already issued")
	}
	return nil
}

func (s *RedisNonceStore) Consume(ctx context.Context, nonce string) (string, bool, error) {
	key := NoncePrefix + nonce

	var get *redis.StringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return get.Val(), true, nil
}

func (s *RedisNonceStore) IsReady(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisNonceStore) Name() string {
	return "NonceStore[redis]"
}

func (s *RedisNonceStore) Shutdown(ctx context.Context) error {
	return s.client.Close()
}
