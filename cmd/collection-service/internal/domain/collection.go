package domain

import (
	"time"

	"github.com/google/uuid"
)

// CollectionType discriminates how a collection's membership is defined.
type CollectionType string

const (
	CollectionTypeFolder CollectionType = "folder" // explicit ordered member list
	CollectionTypeTag    CollectionType = "tag"    // explicit member list grouped by tag
	CollectionTypeSmart  CollectionType = "smart"  // membership computed from a stored query
)

// Visibility controls who inside a tenant may discover a collection.
type Visibility string

const (
	VisibilityPublic       Visibility = "public"
	VisibilityInternal     Visibility = "internal"
	VisibilityConfidential Visibility = "confidential"
)

// CollectionStatus is the lifecycle state of a collection.
type CollectionStatus string

const (
	CollectionStatusActive  CollectionStatus = "active"
	CollectionStatusDeleted CollectionStatus = "deleted"
)

// Collection is a named grouping of documents. Deleting a collection only
// removes the grouping; member documents are owned elsewhere and never
// touched by this service.
type Collection struct {
	ID          string
	TenantID    string
	OwnerID     string
	Name        string
	Description string
	Type        CollectionType
	Visibility  Visibility
	Tags        []string
	DocumentIDs []string         // folder/tag collections only
	Query       *CollectionQuery // smart collections only
	Status      CollectionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCollection creates a collection. A query passed for a non-smart
// collection is dropped rather than stored.
func NewCollection(
	tenantID, ownerID, name, description string,
	collType CollectionType,
	visibility Visibility,
	tags []string,
	query *CollectionQuery,
) *Collection {
	if visibility == "" {
		visibility = VisibilityInternal
	}
	if collType != CollectionTypeSmart {
		query = nil
	}
	now := time.Now()

	return &Collection{
		ID:          "coll_" + uuid.New().String(),
		TenantID:    tenantID,
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Type:        collType,
		Visibility:  visibility,
		Tags:        tags,
		DocumentIDs: []string{},
		Query:       query,
		Status:      CollectionStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsSmart reports whether membership is query-driven.
func (c *Collection) IsSmart() bool {
	return c.Type == CollectionTypeSmart
}

// IsDeleted reports whether the collection has been soft-deleted.
func (c *Collection) IsDeleted() bool {
	return c.Status == CollectionStatusDeleted
}

// Validate checks the structural invariants of a collection.
func (c *Collection) Validate() error {
	if c.TenantID == "" {
		return ErrInvalidTenantID
	}
	if c.Name == "" {
		return ErrInvalidCollectionName
	}
	switch c.Type {
	case CollectionTypeFolder, CollectionTypeTag, CollectionTypeSmart:
	default:
		return ErrInvalidCollectionType
	}
	switch c.Visibility {
	case VisibilityPublic, VisibilityInternal, VisibilityConfidential:
	default:
		return ErrInvalidVisibility
	}
	if c.Type == CollectionTypeSmart && c.Query == nil {
		return ErrSmartQueryRequired
	}
	return nil
}

// Update applies a partial update. Nil pointers leave the field unchanged.
func (c *Collection) Update(name, description *string, visibility *Visibility, tags []string, query *CollectionQuery) {
	if name != nil && *name != "" {
		c.Name = *name
	}
	if description != nil {
		c.Description = *description
	}
	if visibility != nil {
		c.Visibility = *visibility
	}
	if tags != nil {
		c.Tags = tags
	}
	if query != nil && c.IsSmart() {
		c.Query = query
	}
	c.UpdatedAt = time.Now()
}

// AddDocuments appends member IDs, skipping ones already present, and
// returns the number actually added.
func (c *Collection) AddDocuments(ids []string) int {
	existing := make(map[string]struct{}, len(c.DocumentIDs))
	for _, id := range c.DocumentIDs {
		existing[id] = struct{}{}
	}

	added := 0
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			continue
		}
		existing[id] = struct{}{}
		c.DocumentIDs = append(c.DocumentIDs, id)
		added++
	}
	if added > 0 {
		c.UpdatedAt = time.Now()
	}
	return added
}

// RemoveDocument removes one member ID, preserving order of the rest.
func (c *Collection) RemoveDocument(id string) error {
	for i, existing := range c.DocumentIDs {
		if existing == id {
			c.DocumentIDs = append(c.DocumentIDs[:i], c.DocumentIDs[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrDocumentNotInCollection
}

// MarkDeleted soft-deletes the grouping. Member documents are retained.
func (c *Collection) MarkDeleted() {
	c.Status = CollectionStatusDeleted
	c.UpdatedAt = time.Now()
}
