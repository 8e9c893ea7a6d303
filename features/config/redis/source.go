// Package redis serves mongoutil settings from a Redis hash so a fleet of
// processes can share flag values. The hash is read into a snapshot; Refresh
// re-reads it.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"goa.design/mongoutil/runtime/config"
)

type (
	// Source is a config.Source backed by a snapshot of a Redis hash.
	Source struct {
		rdb hashReader
		key string

		mu       sync.RWMutex
		settings map[string]string
	}

	hashReader interface {
		HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	}
)

var _ config.Source = (*Source)(nil)

// New reads the hash stored at key and returns a Source serving it.
func New(ctx context.Context, rdb *redis.Client, key string) (*Source, error) {
	if rdb == nil {
		return nil, errors.New("redis client is required")
	}
	return newSource(ctx, rdb, key)
}

func newSource(ctx context.Context, rdb hashReader, key string) (*Source, error) {
	if key == "" {
		return nil, errors.New("settings key is required")
	}
	s := &Source{rdb: rdb, key: key}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh replaces the snapshot with the current hash content. A missing
// hash yields an empty snapshot.
func (s *Source) Refresh(ctx context.Context) error {
	vals, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return fmt.Errorf("read settings hash %q: %w", s.key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = vals
	return nil
}

// Lookup implements config.Source.
func (s *Source) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[name]
	return v, ok
}
