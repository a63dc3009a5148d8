package domain

import (
	"time"

	"github.com/google/uuid"
)

// Permission is a single right on a resource.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
	PermissionAdmin  Permission = "admin"
)

// PermissionGrant attaches a set of permissions on one resource to one user.
// Grants are checked per operation and never cached by this service.
type PermissionGrant struct {
	ID          string
	ResourceID  string
	TenantID    string
	UserID      string
	Permissions []Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPermissionGrant creates a grant.
func NewPermissionGrant(resourceID, tenantID, userID string, permissions []Permission) *PermissionGrant {
	now := time.Now()
	return &PermissionGrant{
		ID:          "grant_" + uuid.New().String(),
		ResourceID:  resourceID,
		TenantID:    tenantID,
		UserID:      userID,
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Allows reports whether the grant covers the requested permission.
// Admin covers everything; write covers read.
func (g *PermissionGrant) Allows(p Permission) bool {
	for _, held := range g.Permissions {
		if held == p {
			return true
		}
		if held == PermissionAdmin {
			return true
		}
		if held == PermissionWrite && p == PermissionRead {
			return true
		}
	}
	return false
}

// FullPermissions is the set granted to a collection's owner at creation.
func FullPermissions() []Permission {
	return []Permission{PermissionRead, PermissionWrite, PermissionDelete, PermissionAdmin}
}
