package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const (
	EnvRedisHost     = "REDIS_HOST"
	EnvRedisPort     = "REDIS_PORT"
	EnvRedisUser     = "REDIS_USERNAME"
	EnvRedisPassword = "REDIS_PASSWORD"

	redisKeyPrefix = "vup:session:"
)

// RedisStore keeps sessions in Redis with a TTL matching the session expiry,
// so expiry needs no sweep of our own.
type RedisStore struct {
	client *redis.Client
	logger *log.Logger
	ctx    context.Context
	cancel func()
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(host, port, username, password string, logger *log.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Username: username,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	store := &RedisStore{client: client, logger: logger, ctx: ctx, cancel: cancel}

	if err := client.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, err
	}
	return store, nil
}

// Save stores the session under its token with a TTL running to its expiry.
func (st *RedisStore) Save(s *Session) {
	data, err := json.Marshal(s)
	if err != nil {
		st.logger.Error("failed to marshal session", "error", err)
		return
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return
	}

	if err := st.client.Set(st.ctx, redisKeyPrefix+s.Token, data, ttl).Err(); err != nil {
		st.logger.Error("failed to save session to redis", "error", err)
	}
}

// Get returns the live session for token.
func (st *RedisStore) Get(token string) (*Session, bool) {
	data, err := st.client.Get(st.ctx, redisKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		st.logger.Error("failed to get session from redis", "error", err)
		return nil, false
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		st.logger.Error("failed to unmarshal session", "error", err)
		return nil, false
	}
	if session.Expired(time.Now()) {
		st.Delete(token)
		return nil, false
	}
	return &session, true
}

// Delete removes the session; removing an unknown token is a no-op.
func (st *RedisStore) Delete(token string) {
	if err := st.client.Del(st.ctx, redisKeyPrefix+token).Err(); err != nil {
		st.logger.Error("failed to delete session from redis", "error", err)
	}
}

// Close releases the Redis connection.
func (st *RedisStore) Close() error {
	st.cancel()
	return st.client.Close()
}
