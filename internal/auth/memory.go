package auth

import (
	"context"
	"sync"
	"time"

	"authgate.org/internal/ids"
)

// MemoryStore keeps credential records in a mutex-guarded map. It backs
// tests and DSN-less local runs; production uses PGStore.
type MemoryStore struct {
	mu         sync.RWMutex
	byUsername map[string]*Credential
	byEmail    map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byUsername: make(map[string]*Credential),
		byEmail:    make(map[string]string),
	}
}

// Ping satisfies the bootstrap connectivity check; an in-process store is
// always reachable.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byUsername[username]
	return ok, nil
}

func (s *MemoryStore) Insert(ctx context.Context, c *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[c.Username]; ok {
		return ErrAlreadyExists
	}
	if _, ok := s.byEmail[c.Email]; ok {
		return ErrAlreadyExists
	}
	if c.ID == "" {
		c.ID = ids.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	cp := *c
	s.byUsername[c.Username] = &cp
	s.byEmail[c.Email] = c.Username
	return nil
}

func (s *MemoryStore) IsEmpty(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUsername) == 0, nil
}
