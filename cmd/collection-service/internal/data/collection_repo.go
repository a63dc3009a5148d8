package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"

	"docuvault/cmd/collection-service/internal/domain"
)

// CollectionPO is the persistence object for collections.
type CollectionPO struct {
	ID          string `gorm:"primaryKey;size:64"`
	TenantID    string `gorm:"size:64;not null;index:idx_coll_tenant;uniqueIndex:uniq_coll_tenant_name"`
	OwnerID     string `gorm:"size:64;not null"`
	Name        string `gorm:"size:255;not null;uniqueIndex:uniq_coll_tenant_name"`
	Description string `gorm:"type:text"`
	Type        string `gorm:"size:20;not null;index:idx_coll_type"`
	Visibility  string `gorm:"size:20;not null"`
	Tags        string `gorm:"type:jsonb"`
	DocumentIDs string `gorm:"type:jsonb"`
	Query       string `gorm:"type:jsonb"`
	Status      string `gorm:"size:20;not null;index:idx_coll_status"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index:idx_coll_updated"`
}

// TableName maps the PO to its table.
func (CollectionPO) TableName() string {
	return "docuvault.collections"
}

// CollectionRepository is the gorm-backed collection store.
type CollectionRepository struct {
	data *Data
	log  *log.Helper
}

// NewCollectionRepo creates the collection repository.
func NewCollectionRepo(data *Data, logger log.Logger) domain.CollectionRepository {
	return &CollectionRepository{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// Create persists a new collection.
func (r *CollectionRepository) Create(ctx context.Context, coll *domain.Collection) error {
	po, err := r.toCollectionPO(coll)
	if err != nil {
		return err
	}

	if err := r.data.db.WithContext(ctx).Create(po).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrCollectionNameTaken
		}
		r.log.Errorf("failed to create collection: %v", err)
		return err
	}
	return nil
}

// GetByID fetches one active collection scoped to a tenant. Soft-deleted
// collections behave like absent ones.
func (r *CollectionRepository) GetByID(ctx context.Context, id, tenantID string) (*domain.Collection, error) {
	var po CollectionPO
	err := r.data.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND status = ?", id, tenantID, string(domain.CollectionStatusActive)).
		First(&po).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrCollectionNotFound
		}
		r.log.Errorf("failed to get collection %s: %v", id, err)
		return nil, err
	}
	return r.toDomainCollection(&po)
}

// Update persists collection mutations. Last writer wins; no optimistic
// concurrency token is enforced at this layer.
func (r *CollectionRepository) Update(ctx context.Context, coll *domain.Collection) error {
	po, err := r.toCollectionPO(coll)
	if err != nil {
		return err
	}

	if err := r.data.db.WithContext(ctx).
		Model(&CollectionPO{}).
		Where("id = ? AND tenant_id = ?", coll.ID, coll.TenantID).
		Select("*").
		Updates(po).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrCollectionNameTaken
		}
		r.log.Errorf("failed to update collection %s: %v", coll.ID, err)
		return err
	}
	return nil
}

// List returns a cursor-paginated page of the tenant's active collections.
func (r *CollectionRepository) List(
	ctx context.Context,
	tenantID string,
	collType *domain.CollectionType,
	limit int,
	cursor string,
) ([]*domain.Collection, string, bool, error) {
	query := r.data.db.WithContext(ctx).
		Model(&CollectionPO{}).
		Where("tenant_id = ? AND status = ?", tenantID, string(domain.CollectionStatusActive))

	if collType != nil {
		query = query.Where("type = ?", string(*collType))
	}

	if cursor != "" {
		ts, id, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", false, err
		}
		query = query.Where("(updated_at, id) < (?, ?)", ts, id)
	}

	var pos []CollectionPO
	if err := query.
		Order("updated_at DESC, id DESC").
		Limit(limit + 1).
		Find(&pos).Error; err != nil {
		r.log.Errorf("failed to list collections: %v", err)
		return nil, "", false, err
	}

	hasMore := len(pos) > limit
	if hasMore {
		pos = pos[:limit]
	}

	colls := make([]*domain.Collection, 0, len(pos))
	for i := range pos {
		coll, err := r.toDomainCollection(&pos[i])
		if err != nil {
			r.log.Warnf("failed to convert collection %s: %v", pos[i].ID, err)
			continue
		}
		colls = append(colls, coll)
	}

	nextCursor := ""
	if hasMore && len(pos) > 0 {
		last := pos[len(pos)-1]
		nextCursor = encodeCursor(last.UpdatedAt, last.ID)
	}

	return colls, nextCursor, hasMore, nil
}

func (r *CollectionRepository) toCollectionPO(coll *domain.Collection) (*CollectionPO, error) {
	tagsJSON, _ := json.Marshal(coll.Tags)
	docIDsJSON, _ := json.Marshal(coll.DocumentIDs)

	queryJSON := ""
	if coll.Query != nil {
		raw, err := json.Marshal(coll.Query)
		if err != nil {
			return nil, err
		}
		queryJSON = string(raw)
	}

	return &CollectionPO{
		ID:          coll.ID,
		TenantID:    coll.TenantID,
		OwnerID:     coll.OwnerID,
		Name:        coll.Name,
		Description: coll.Description,
		Type:        string(coll.Type),
		Visibility:  string(coll.Visibility),
		Tags:        string(tagsJSON),
		DocumentIDs: string(docIDsJSON),
		Query:       queryJSON,
		Status:      string(coll.Status),
		CreatedAt:   coll.CreatedAt,
		UpdatedAt:   coll.UpdatedAt,
	}, nil
}

func (r *CollectionRepository) toDomainCollection(po *CollectionPO) (*domain.Collection, error) {
	var tags []string
	if po.Tags != "" {
		json.Unmarshal([]byte(po.Tags), &tags)
	}

	docIDs := []string{}
	if po.DocumentIDs != "" {
		json.Unmarshal([]byte(po.DocumentIDs), &docIDs)
	}

	var query *domain.CollectionQuery
	if po.Query != "" {
		query = &domain.CollectionQuery{}
		if err := json.Unmarshal([]byte(po.Query), query); err != nil {
			return nil, err
		}
	}

	return &domain.Collection{
		ID:          po.ID,
		TenantID:    po.TenantID,
		OwnerID:     po.OwnerID,
		Name:        po.Name,
		Description: po.Description,
		Type:        domain.CollectionType(po.Type),
		Visibility:  domain.Visibility(po.Visibility),
		Tags:        tags,
		DocumentIDs: docIDs,
		Query:       query,
		Status:      domain.CollectionStatus(po.Status),
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}, nil
}
