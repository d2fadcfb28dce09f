package notify

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// RedisScheduler keeps pending requests in one Redis hash per user, keyed by
// reminder ID.
type RedisScheduler struct {
	client *backend.Client
	prefix string
}

type RedisOption func(*RedisScheduler)

// WithPrefix sets the key prefix for reminder hashes.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisScheduler) {
		s.prefix = prefix
	}
}

// NewRedisScheduler connects to the Redis server at address.
func NewRedisScheduler(address, password string, db int, opts ...RedisOption) *RedisScheduler {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisSchedulerFromClient(rdb, opts...)
}

// NewRedisSchedulerFromClient uses an existing client.
func NewRedisSchedulerFromClient(client *backend.Client, opts ...RedisOption) *RedisScheduler {
	s := &RedisScheduler{
		client: client,
		prefix: "diarycard:reminders:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisScheduler) key(userID string) string {
	return s.prefix + userID
}

func (s *RedisScheduler) Schedule(ctx context.Context, userID string, r Reminder) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder: %w", err)
	}
	if err := s.client.HSet(ctx, s.key(userID), r.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	return nil
}

func (s *RedisScheduler) ClearAll(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}
	return nil
}

func (s *RedisScheduler) Pending(ctx context.Context, userID string) ([]Reminder, error) {
	vals, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	out := make([]Reminder, 0, len(vals))
	for id, raw := range vals {
		var r Reminder
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reminder %s: %w", id, err)
		}
		out = append(out, r)
	}
	SortReminders(out)
	return out, nil
}

// ReplaceAll clears the user's hash and writes rs in one MULTI/EXEC.
func (s *RedisScheduler) ReplaceAll(ctx context.Context, userID string, rs []Reminder) error {
	fields := make([]any, 0, 2*len(rs))
	for _, r := range rs {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal reminder: %w", err)
		}
		fields = append(fields, r.ID, data)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(userID))
	if len(fields) > 0 {
		pipe.HSet(ctx, s.key(userID), fields...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to replace reminders: %w", err)
	}
	return nil
}

// Ping checks that the server is reachable.
func (s *RedisScheduler) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *RedisScheduler) Close() error {
	return s.client.Close()
}
