package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ SessionStore = (*RedisSessionStore)(nil)

// RedisSessionStore sesiones de refresco en Redis:
//
//	refresh:<hash>        → user_id   (TTL = vida del refresh token)
//	user_sessions:<user>  → set de hashes, para revocar todas las sesiones de un usuario
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore construye el store sobre un cliente ya conectado.
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

// NewRedisClient conecta y hace ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func sessionKey(tokenHash string) string { return "refresh:" + tokenHash }
func userKey(userID string) string       { return "user_sessions:" + userID }

func (s *RedisSessionStore) Save(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(tokenHash), userID, ttl)
	pipe.SAdd(ctx, userKey(userID), tokenHash)
	pipe.Expire(ctx, userKey(userID), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) Consume(ctx context.Context, tokenHash string) (string, error) {
	userID, err := s.rdb.GetDel(ctx, sessionKey(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if err := s.rdb.SRem(ctx, userKey(userID), tokenHash).Err(); err != nil {
		return "", fmt.Errorf("redis srem %s: %w", userKey(userID), err)
	}
	return userID, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, tokenHash string) error {
	_, err := s.Consume(ctx, tokenHash)
	return err
}

func (s *RedisSessionStore) RevokeUser(ctx context.Context, userID string) error {
	hashes, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(hashes)+1)
	for _, h := range hashes {
		keys = append(keys, sessionKey(h))
	}
	keys = append(keys, userKey(userID))
	return s.rdb.Del(ctx, keys...).Err()
}
