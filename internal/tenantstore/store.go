// Package tenantstore implements spec §4.A: lookup and secret
// verification for tenants. The core only depends on the Store
// interface; MemoryStore is the default, swappable implementation a
// standalone binary runs with no external database.
package tenantstore

import (
	"context"
	"errors"

	"github.com/Ashish23jun/One-Call/internal/domain"
)

// ErrNotFound is returned by Lookup when no tenant has the given id.
var ErrNotFound = errors.New("tenant not found")

// ErrUnauthorized is returned by VerifySecret when the id/secret pair
// does not match.
var ErrUnauthorized = errors.New("tenant credentials invalid")

// Store is the interface the core consumes, per spec §4.A.
type Store interface {
	Lookup(ctx context.Context, tenantID string) (*domain.Tenant, error)
	VerifySecret(ctx context.Context, tenantID, presentedSecret string) (*domain.Tenant, error)
}

// Creator is satisfied by implementations that also support tenant
// creation for the REST surface's POST /apps. It is intentionally
// separate from Store: the core's two components (A, B) never create
// tenants, only the REST handler does.
type Creator interface {
	CreateTenant(ctx context.Context, name string) (*domain.Tenant, string, error)
	List(ctx context.Context) ([]*domain.Tenant, error)
}
