// Package redis persists recordings in Redis, one list per run, so replays
// can outlive the recording process.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/schema"
)

// Store implements ports.FrameStore on Redis. Each run is an RPUSH-ordered
// list of JSON frames under prefix+runID, plus a set of known run ids.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets an expiration for recordings. Zero (the default) keeps them
// forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewFromClient creates a store over an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "marionette:run:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(runID string) string { return s.prefix + runID }
func (s *Store) indexKey() string        { return s.prefix + "index" }

// Append pushes the next frame of a run.
func (s *Store) Append(ctx context.Context, runID string, f domain.Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.key(runID), data)
	pipe.SAdd(ctx, s.indexKey(), runID)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(runID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append to redis: %w", err)
	}
	return nil
}

// Frames loads and decodes the full recording.
func (s *Store) Frames(ctx context.Context, runID string) ([]domain.Frame, error) {
	raw, err := s.client.LRange(ctx, s.key(runID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read from redis: %w", err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrRunNotFound
	}

	frames := make([]domain.Frame, len(raw))
	for i, item := range raw {
		f, err := schema.DecodeFrame([]byte(item))
		if err != nil {
			return nil, fmt.Errorf("frame %d of run %q: %w", i, runID, err)
		}
		frames[i] = f
	}
	return frames, nil
}

// Count reports the recording length.
func (s *Store) Count(ctx context.Context, runID string) (int, error) {
	n, err := s.client.LLen(ctx, s.key(runID)).Result()
	if err != nil {
		return 0, fmt.Errorf("llen: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrRunNotFound
	}
	return int(n), nil
}

// Delete removes a recording and its index entry.
func (s *Store) Delete(ctx context.Context, runID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(runID))
	pipe.SRem(ctx, s.indexKey(), runID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete from redis: %w", err)
	}
	return nil
}

// List returns the known run ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return ids, nil
}
