package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process reference Store. It never blocks and never
// fails; every method returns a nil error.
type MemoryStore struct {
	mu       sync.RWMutex
	tokens   map[string]time.Time
	subjects map[string]struct{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens:   make(map[string]time.Time),
		subjects: make(map[string]struct{}),
	}
}

// Revoke implements Store.
func (s *MemoryStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	s.tokens[tokenID] = expiresAt
	s.mu.Unlock()
	return nil
}

// IsRevoked implements Store. Entries past their expiry read as not revoked;
// they linger until Cleanup removes them.
func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	expiresAt, ok := s.tokens[tokenID]
	s.mu.RUnlock()

	return ok && time.Now().Before(expiresAt), nil
}

// RevokeSubject implements Store.
func (s *MemoryStore) RevokeSubject(_ context.Context, subjectID string) error {
	s.mu.Lock()
	s.subjects[subjectID] = struct{}{}
	s.mu.Unlock()
	return nil
}

// IsSubjectRevoked implements Store.
func (s *MemoryStore) IsSubjectRevoked(_ context.Context, subjectID string) (bool, error) {
	s.mu.RLock()
	_, ok := s.subjects[subjectID]
	s.mu.RUnlock()
	return ok, nil
}

// ReinstateSubject implements Store.
func (s *MemoryStore) ReinstateSubject(_ context.Context, subjectID string) error {
	s.mu.Lock()
	delete(s.subjects, subjectID)
	s.mu.Unlock()
	return nil
}

// Cleanup implements Store: token-level entries whose expiry has passed are
// removed. Subject entries are left untouched.
func (s *MemoryStore) Cleanup(_ context.Context) error {
	now := time.Now()

	s.mu.Lock()
	for tokenID, expiresAt := range s.tokens {
		if !now.Before(expiresAt) {
			delete(s.tokens, tokenID)
		}
	}
	s.mu.Unlock()
	return nil
}

// Len reports the resident token-level and subject-level entry counts.
func (s *MemoryStore) Len() (tokens, subjects int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens), len(s.subjects)
}
