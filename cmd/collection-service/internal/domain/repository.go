package domain

import (
	"context"
)

// ShardRepository is the read-only view of the shard store this service
// consumes. The store paginates with continuation cursors only; numeric
// offset is not a native capability.
type ShardRepository interface {
	// FindByID fetches one shard by its composite key.
	FindByID(ctx context.Context, id, tenantID string) (*Shard, error)

	// List returns up to limit shards matching the filter, ordered by last
	// update descending, plus an opaque cursor for the next page.
	List(ctx context.Context, filter ShardFilter, limit int, cursor string) ([]*Shard, string, bool, error)
}

// CollectionRepository persists collections. Delete is a status change
// applied through Update; rows are never removed.
type CollectionRepository interface {
	// Create persists a new collection.
	Create(ctx context.Context, coll *Collection) error

	// GetByID fetches one active collection scoped to a tenant.
	GetByID(ctx context.Context, id, tenantID string) (*Collection, error)

	// Update persists collection mutations, last writer wins.
	Update(ctx context.Context, coll *Collection) error

	// List returns a cursor-paginated page of the tenant's active
	// collections, optionally filtered by type.
	List(ctx context.Context, tenantID string, collType *CollectionType, limit int, cursor string) ([]*Collection, string, bool, error)
}

// PermissionRepository persists per-resource permission grants.
type PermissionRepository interface {
	// Grant creates or replaces the grant for (resource, user).
	Grant(ctx context.Context, grant *PermissionGrant) error

	// Revoke removes the grant for (resource, user).
	Revoke(ctx context.Context, resourceID, tenantID, userID string) error

	// GetGrant fetches the grant for (resource, user), or ErrGrantNotFound.
	GetGrant(ctx context.Context, resourceID, tenantID, userID string) (*PermissionGrant, error)
}
