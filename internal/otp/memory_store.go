package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	timers  map[string]*time.Timer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		timers:  make(map[string]*time.Timer),
	}
}

func (s *MemoryStore) Get(_ context.Context, email string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Save(_ context.Context, rec *Record, expectedVersion int64) error {
	key := NormalizeEmail(rec.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if existing, ok := s.records[key]; ok {
		current = existing.Version
	}
	if current != expectedVersion {
		return ErrVersionConflict
	}

	rec.Version = expectedVersion + 1
	s.records[key] = *rec
	s.schedulePurge(key, rec.CodeHash, rec.ExpiryTime.Add(ExpiryGrace))
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	key := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
	return nil
}

// schedulePurge must be called with s.mu held. The purge is a no-op when a
// newer code has been issued for the same email in the meantime.
func (s *MemoryStore) schedulePurge(key, codeHash string, at time.Time) {
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(time.Until(at), func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if rec, ok := s.records[key]; ok && rec.CodeHash == codeHash {
			delete(s.records, key)
			delete(s.timers, key)
		}
	})
}
