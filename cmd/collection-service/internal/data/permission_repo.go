package data

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docuvault/cmd/collection-service/internal/domain"
)

// PermissionGrantPO is the persistence object for permission grants.
type PermissionGrantPO struct {
	ID          string `gorm:"primaryKey;size:64"`
	ResourceID  string `gorm:"size:64;not null;uniqueIndex:uniq_grant_resource_user"`
	TenantID    string `gorm:"size:64;not null;index:idx_grant_tenant;uniqueIndex:uniq_grant_resource_user"`
	UserID      string `gorm:"size:64;not null;uniqueIndex:uniq_grant_resource_user"`
	Permissions string `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName maps the PO to its table.
func (PermissionGrantPO) TableName() string {
	return "docuvault.permission_grants"
}

// PermissionRepository is the gorm-backed grant store.
type PermissionRepository struct {
	data *Data
	log  *log.Helper
}

// NewPermissionRepo creates the permission repository.
func NewPermissionRepo(data *Data, logger log.Logger) domain.PermissionRepository {
	return &PermissionRepository{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// Grant creates or replaces the grant for (resource, user).
func (r *PermissionRepository) Grant(ctx context.Context, grant *domain.PermissionGrant) error {
	permsJSON, _ := json.Marshal(grant.Permissions)

	po := &PermissionGrantPO{
		ID:          grant.ID,
		ResourceID:  grant.ResourceID,
		TenantID:    grant.TenantID,
		UserID:      grant.UserID,
		Permissions: string(permsJSON),
		CreatedAt:   grant.CreatedAt,
		UpdatedAt:   grant.UpdatedAt,
	}

	err := r.data.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_id"}, {Name: "tenant_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"permissions", "updated_at"}),
		}).
		Create(po).Error
	if err != nil {
		r.log.Errorf("failed to grant permission on %s: %v", grant.ResourceID, err)
		return err
	}
	return nil
}

// Revoke removes the grant for (resource, user).
func (r *PermissionRepository) Revoke(ctx context.Context, resourceID, tenantID, userID string) error {
	result := r.data.db.WithContext(ctx).
		Where("resource_id = ? AND tenant_id = ? AND user_id = ?", resourceID, tenantID, userID).
		Delete(&PermissionGrantPO{})
	if result.Error != nil {
		r.log.Errorf("failed to revoke permission on %s: %v", resourceID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrGrantNotFound
	}
	return nil
}

// GetGrant fetches the grant for (resource, user).
func (r *PermissionRepository) GetGrant(ctx context.Context, resourceID, tenantID, userID string) (*domain.PermissionGrant, error) {
	var po PermissionGrantPO
	err := r.data.db.WithContext(ctx).
		Where("resource_id = ? AND tenant_id = ? AND user_id = ?", resourceID, tenantID, userID).
		First(&po).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrGrantNotFound
		}
		r.log.Errorf("failed to get grant on %s: %v", resourceID, err)
		return nil, err
	}

	var perms []domain.Permission
	if po.Permissions != "" {
		json.Unmarshal([]byte(po.Permissions), &perms)
	}

	return &domain.PermissionGrant{
		ID:          po.ID,
		ResourceID:  po.ResourceID,
		TenantID:    po.TenantID,
		UserID:      po.UserID,
		Permissions: perms,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}, nil
}
