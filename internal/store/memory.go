package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore implements RaceStore in process. It backs the server when no
// database is configured, and the tests.
type MemoryStore struct {
	saves   map[string]SaveRecord
	results []ResultRecord
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{saves: make(map[string]SaveRecord)}
}

func (s *MemoryStore) PutSave(_ context.Context, rec *SaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *rec
	saved.Data = append([]byte(nil), rec.Data...)
	s.saves[rec.Slot] = saved
	return nil
}

func (s *MemoryStore) GetSave(_ context.Context, slot string) (*SaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.saves[slot]
	if !ok {
		return nil, fmt.Errorf("save %q: %w", slot, ErrNotFound)
	}
	rec.Data = append([]byte(nil), rec.Data...)
	return &rec, nil
}

func (s *MemoryStore) ListSaves(_ context.Context) ([]SaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	saves := make([]SaveRecord, 0, len(s.saves))
	for _, rec := range s.saves {
		rec.Data = nil
		saves = append(saves, rec)
	}
	sort.Slice(saves, func(i, j int) bool { return saves[i].Slot < saves[j].Slot })
	return saves, nil
}

func (s *MemoryStore) DeleteSave(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.saves[slot]; !ok {
		return fmt.Errorf("save %q: %w", slot, ErrNotFound)
	}
	delete(s.saves, slot)
	return nil
}

func (s *MemoryStore) RecordResult(_ context.Context, rec *ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *rec)
	return nil
}

// ListResults returns results newest first, in insertion order for equal timestamps.
func (s *MemoryStore) ListResults(_ context.Context, limit int) ([]ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = normalizeLimit(limit)
	results := make([]ResultRecord, 0, min(limit, len(s.results)))
	for i := len(s.results) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, s.results[i])
	}
	return results, nil
}

func (s *MemoryStore) Close() error { return nil }
