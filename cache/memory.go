package cache

import (
	"context"
	"sync"
	"time"

	"attendees/clock"
	"attendees/entities"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type MemoryStore struct {
	lock    sync.Mutex
	clock   clock.Clock
	entries map[entities.FieldKey]memoryEntry
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clk,
		entries: map[entities.FieldKey]memoryEntry{},
	}
}

func (s *MemoryStore) Get(_ context.Context, key entities.FieldKey) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if !s.clock.Now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return "", false
	}

	return entry.value, true
}

func (s *MemoryStore) Set(_ context.Context, key entities.FieldKey, value string, ttlDays int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.clock.Now().Add(ttl(ttlDays)),
	}
	return nil
}
