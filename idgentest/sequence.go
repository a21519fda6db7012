package idgentest

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

// Sequence hands out consecutive numbers per key.
type Sequence interface {
	// Next reserves n numbers for key and returns the first one. Numbers start at 1.
	Next(ctx context.Context, key string, n int64) (int64, error)
}

// MemorySequence keeps counters in process memory.
type MemorySequence struct {
	mu       sync.Mutex
	counters map[string]int64
}

var _ Sequence = (*MemorySequence)(nil)

// NewMemorySequence creates an empty in-memory sequence.
func NewMemorySequence() *MemorySequence {
	return &MemorySequence{counters: make(map[string]int64)}
}

func (s *MemorySequence) Next(_ context.Context, key string, n int64) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("sequence %s: n must be > 0", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] += n
	return s.counters[key] - n + 1, nil
}

// RedisSequence keeps counters in redis so several fake services can share them.
type RedisSequence struct {
	client *redis.Client
}

var _ Sequence = (*RedisSequence)(nil)

// NewRedisSequence uses client for INCRBY on "idgen:<key>".
func NewRedisSequence(client *redis.Client) *RedisSequence {
	return &RedisSequence{client: client}
}

func (s *RedisSequence) Next(ctx context.Context, key string, n int64) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("sequence %s: n must be > 0", key)
	}
	last, err := s.client.IncrBy(ctx, "idgen:"+key, n).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incrby %s: %w", key, err)
	}
	return last - n + 1, nil
}
