package domain

import "time"

// ShardType identifies the kind of record a shard holds. Documents,
// collections and most other entities share the same underlying store.
type ShardType string

const (
	ShardTypeDocument ShardType = "document"
)

// ShardStatus is the lifecycle state of a shard.
type ShardStatus string

const (
	ShardStatusActive  ShardStatus = "active"
	ShardStatusDeleted ShardStatus = "deleted"
)

// Shard is the generic record abstraction of the document store, keyed by
// (id, tenant_id). This service only ever reads document shards; it never
// creates, updates or deletes them.
type Shard struct {
	ID           string
	TenantID     string
	ShardTypeID  ShardType
	Status       ShardStatus
	Name         string
	Category     string
	DocumentType string
	Visibility   string
	Tags         []string
	Data         map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShardFilter is the store's native filter shape. Zero values mean "no
// constraint" except TenantID, which is always required.
type ShardFilter struct {
	TenantID      string
	ShardTypeID   ShardType
	Status        ShardStatus
	Category      string
	Visibility    string
	DocumentType  string
	TagsAnyOf     []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
