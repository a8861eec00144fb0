package roomstore

import (
	"context"
	"sync"
	"time"

	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store guarded by a single sync.RWMutex.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

// NewMemoryStore builds an empty room store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*domain.Room)}
}

// Create mints a room-id and records the owning tenant for the
// lifetime of the room, per spec §3's ownership invariant.
func (s *MemoryStore) Create(ctx context.Context, tenantID, name string, maxParticipants int) (*domain.Room, error) {
	if maxParticipants <= 0 {
		maxParticipants = domain.DefaultMaxParticipants
	}
	r := &domain.Room{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		Name:            name,
		MaxParticipants: maxParticipants,
		CreatedAt:       time.Now().UTC(),
	}
	s.mu.Lock()
	s.rooms[r.ID] = r
	s.mu.Unlock()
	return r, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// ListByTenant returns the rooms owned by tenantID, in no particular order.
func (s *MemoryStore) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Room, 0)
	for _, r := range s.rooms {
		if r.TenantID == tenantID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}
