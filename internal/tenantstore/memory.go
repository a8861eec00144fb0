package tenantstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"sync"
	"time"

	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/google/uuid"
)

type tenantRecord struct {
	tenant     domain.Tenant
	secretHash [sha256.Size]byte
}

// MemoryStore is an in-memory Store+Creator, guarded by a single
// sync.RWMutex, matching the registry-style locking the teacher uses
// throughout internal/app. Secrets are hashed at rest; VerifySecret
// compares hashes in constant time so presented-secret length and
// content never leak through timing.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[string]*tenantRecord
}

// NewMemoryStore builds an empty tenant store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tenants: make(map[string]*tenantRecord)}
}

// CreateTenant mints a tenant-id and a high-entropy secret, returning
// the plaintext secret exactly once (it is never retrievable again).
func (s *MemoryStore) CreateTenant(ctx context.Context, name string) (*domain.Tenant, string, error) {
	secret, err := randomSecret()
	if err != nil {
		return nil, "", err
	}

	t := domain.Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.tenants[t.ID] = &tenantRecord{tenant: t, secretHash: sha256.Sum256([]byte(secret))}
	s.mu.Unlock()

	return &t, secret, nil
}

// List returns a snapshot of all known tenants, in no particular order.
func (s *MemoryStore) List(ctx context.Context) ([]*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Tenant, 0, len(s.tenants))
	for _, rec := range s.tenants {
		t := rec.tenant
		out = append(out, &t)
	}
	return out, nil
}

// Lookup implements Store.
func (s *MemoryStore) Lookup(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	s.mu.RLock()
	rec, ok := s.tenants[tenantID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	t := rec.tenant
	return &t, nil
}

// VerifySecret implements Store with a constant-time comparison.
func (s *MemoryStore) VerifySecret(ctx context.Context, tenantID, presentedSecret string) (*domain.Tenant, error) {
	s.mu.RLock()
	rec, ok := s.tenants[tenantID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnauthorized
	}
	presentedHash := sha256.Sum256([]byte(presentedSecret))
	if subtle.ConstantTimeCompare(presentedHash[:], rec.secretHash[:]) != 1 {
		return nil, ErrUnauthorized
	}
	t := rec.tenant
	return &t, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
