// Package cache holds short-lived per-user state: one-shot notifications and
// the fingerprints that keep a callback from being handled twice.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/models"
)

// FlashStore delivers each pushed notification at most once.
type FlashStore interface {
	Push(ctx context.Context, userID string, n *models.Notification) error
	Pop(ctx context.Context, userID string) ([]*models.Notification, error)
	// MarkOnce claims key for ttl. It reports false when key was already claimed.
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type memoryFlashStore struct {
	mu    sync.Mutex
	queue map[string][]*models.Notification
	seen  map[string]time.Time
	now   func() time.Time
}

func NewMemoryFlashStore() FlashStore {
	return &memoryFlashStore{
		queue: make(map[string][]*models.Notification),
		seen:  make(map[string]time.Time),
		now:   time.Now,
	}
}

func (s *memoryFlashStore) Push(ctx context.Context, userID string, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue[userID] = append(s.queue[userID], n)
	return nil
}

func (s *memoryFlashStore) Pop(ctx context.Context, userID string) ([]*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.queue[userID]
	delete(s.queue, userID)
	return out, nil
}

func (s *memoryFlashStore) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.seen {
		if now.After(exp) {
			delete(s.seen, k)
		}
	}
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = now.Add(ttl)
	return true, nil
}
