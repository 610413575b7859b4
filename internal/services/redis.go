package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/keeper-games/last-algorithm/pkg/state"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore implements SessionStore using Redis. Sessions are
// stored as JSON values with a sliding TTL refreshed on every save.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Ensure RedisSessionStore implements SessionStore interface
var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a new Redis session store.
func NewRedisSessionStore(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisSessionStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisSessionStore{
		client: redis.NewClient(opt),
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (r *RedisSessionStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisSessionStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisSessionStore) SaveSession(ctx context.Context, sessionID string, sess *state.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		r.logger.Error("Failed to marshal session", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := sessionKeyPrefix + sessionID
	if err := r.client.Set(ctx, key, string(data), r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *RedisSessionStore) LoadSession(ctx context.Context, sessionID string) (*state.Session, error) {
	key := sessionKeyPrefix + sessionID
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Session not found", "session_id", sessionID)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess state.Session
	if err := json.Unmarshal([]byte(cmd.Val()), &sess); err != nil {
		r.logger.Error("Failed to unmarshal session", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

func (r *RedisSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	key := sessionKeyPrefix + sessionID
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete session", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
