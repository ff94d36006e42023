package kv

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. It backs the "memory" backend
// mode and the test suite. An optional latency per operation mimics
// the simulated persistence round-trip of the original demo.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string][]byte
	latency time.Duration

	// failNext makes the next mutation fail; used to exercise the
	// no-partial-success failure path in tests.
	failNext error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(latency time.Duration) *MemoryStore {
	return &MemoryStore{
		data:    make(map[string][]byte),
		latency: latency,
	}
}

func (s *MemoryStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns the stored value for key, or ok=false if the key has
// never been written.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.wait(ctx); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

// Set replaces the whole value stored under key.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

// FailNextSet makes the next Set return an error, leaving the stored
// collection untouched.
func (s *MemoryStore) FailNextSet(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = errors.New(msg)
}
