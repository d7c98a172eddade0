package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/viralforge/secure-notes/internal/domain"
)

type redisSessionRecord struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisSessionStore keeps sessions in Redis keyed by token.
// The key TTL enforces the idle timeout; the stored creation time enforces
// the absolute cap on resolve.
type RedisSessionStore struct {
	client      *redis.Client
	idleTTL     time.Duration
	absoluteTTL time.Duration
}

func NewRedisSessionStore(client *redis.Client, idleTTL, absoluteTTL time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client:      client,
		idleTTL:     idleTTL,
		absoluteTTL: absoluteTTL,
	}
}

func (s *RedisSessionStore) Create(ctx context.Context, username string, now time.Time) (string, error) {
	token := uuid.NewString()
	raw, err := json.Marshal(redisSessionRecord{Username: username, CreatedAt: now})
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, sessionKey(token), raw, s.idleTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessionStore) Resolve(ctx context.Context, token string, now time.Time) (string, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}

	var rec redisSessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return "", domain.ErrUnauthorized
	}
	if now.Sub(rec.CreatedAt) >= s.absoluteTTL {
		_ = s.client.Del(ctx, sessionKey(token)).Err()
		return "", domain.ErrUnauthorized
	}

	_ = s.client.Expire(ctx, sessionKey(token), s.idleTTL).Err()
	return rec.Username, nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return "auth:session:" + token
}
