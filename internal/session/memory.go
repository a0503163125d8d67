package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// MemoryStore is an in-process Store whose entries expire ttl after their
// last Put.
type MemoryStore[T any] struct {
	c *cache.Cache
}

// NewMemoryStore returns a store with the given expiry; ttl <= 0 uses
// DefaultTTL.
func NewMemoryStore[T any](ttl time.Duration) *MemoryStore[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore[T]{c: cache.New(ttl, 2*ttl)}
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, bool, error) {
	var zero T
	v, ok := s.c.Get(id)
	if !ok {
		return zero, false, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, nil
	}
	return t, true, nil
}

func (s *MemoryStore[T]) Put(_ context.Context, id string, v T) error {
	s.c.SetDefault(id, v)
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore[T]) Len() int {
	return s.c.ItemCount()
}

func (s *MemoryStore[T]) NewID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
