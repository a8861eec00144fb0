// Package roomstore implements the room-half of the storage seam
// spec §3 describes as external: rooms are created externally and
// consulted by the Grant Issuer (§4.B). Store is what the core
// consults; MemoryStore is the default standalone implementation.
package roomstore

import (
	"context"
	"errors"

	"github.com/Ashish23jun/One-Call/internal/domain"
)

// ErrNotFound is returned when no room has the given id.
var ErrNotFound = errors.New("room not found")

// Store is consulted by the Grant Issuer to resolve a room-id to its
// owning tenant-id and capacity, per spec §4.B's preconditions.
type Store interface {
	Get(ctx context.Context, roomID string) (*domain.Room, error)
	Create(ctx context.Context, tenantID, name string, maxParticipants int) (*domain.Room, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Room, error)
}
