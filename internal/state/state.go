package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateManager tracks which categories a run has fully processed so an
// interrupted run can resume without refetching completed categories.
type StateManager interface {
	IsCategoryCompleted(ctx context.Context, category string) (bool, error)
	MarkCategoryCompleted(ctx context.Context, category string) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "sephora:progress:category:",
	}
}

func (s *redisStateManager) IsCategoryCompleted(ctx context.Context, category string) (bool, error) {
	key := s.keyPrefix + category
	_, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil // No progress saved yet
		}
		return false, fmt.Errorf("failed to get progress for category %s: %w", category, err)
	}
	return true, nil
}

func (s *redisStateManager) MarkCategoryCompleted(ctx context.Context, category string) error {
	key := s.keyPrefix + category
	err := s.redisClient.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), 0).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to mark category %s completed: %w", category, err)
	}
	return nil
}

type memoryStateManager struct {
	mu        sync.Mutex
	completed map[string]bool
}

// NewMemoryStateManager returns an in-process StateManager, used by tests and
// single-shot runs without redis.
func NewMemoryStateManager() StateManager {
	return &memoryStateManager{completed: make(map[string]bool)}
}

func (s *memoryStateManager) IsCategoryCompleted(ctx context.Context, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed[category], nil
}

func (s *memoryStateManager) MarkCategoryCompleted(ctx context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed[category] = true
	return nil
}
