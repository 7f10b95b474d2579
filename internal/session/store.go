package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/logging"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	"github.com/redis/go-redis/v9"
)

// Store persists per-user sessions in Redis, keyed by Telegram user id.
// Sessions never expire; the bot resets them explicitly.
type Store struct {
	client *redis.Client
}

// NewStore connects to Redis at the given URL (redis://host:port)
func NewStore(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &Store{client: redis.NewClient(opts)}, nil
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func key(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

// Get returns the user's session. An absent or unreadable record yields
// the default initial session; a structurally invalid one is normalized.
func (s *Store) Get(ctx context.Context, userID int64) models.Session {
	raw, err := s.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			logging.Warn("session read failed, using default", map[string]interface{}{
				"user_id": userID, "error": err.Error(),
			})
		}
		return models.DefaultSession()
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		logging.Warn("session decode failed, using default", map[string]interface{}{
			"user_id": userID, "error": err.Error(),
		})
		return models.DefaultSession()
	}
	sess.Normalize()
	return sess
}

// Set writes the whole session for the user
func (s *Store) Set(ctx context.Context, userID int64, sess models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Reset writes the default initial session for the user
func (s *Store) Reset(ctx context.Context, userID int64) error {
	return s.Set(ctx, userID, models.DefaultSession())
}
