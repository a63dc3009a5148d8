package data

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"docuvault/cmd/collection-service/internal/domain"
)

// ShardPO is the persistence object for shards.
type ShardPO struct {
	ID           string `gorm:"primaryKey;size:64"`
	TenantID     string `gorm:"primaryKey;size:64;index:idx_shard_tenant"`
	ShardTypeID  string `gorm:"size:32;not null;index:idx_shard_type"`
	Status       string `gorm:"size:20;not null;index:idx_shard_status"`
	Name         string `gorm:"size:255;not null"`
	Category     string `gorm:"size:100;index:idx_shard_category"`
	DocumentType string `gorm:"size:100"`
	Visibility   string `gorm:"size:20"`
	Tags         string `gorm:"type:jsonb"`
	Data         string `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"index:idx_shard_updated"`
}

// TableName maps the PO to its table.
func (ShardPO) TableName() string {
	return "docuvault.shards"
}

// ShardRepository is the gorm-backed shard store.
type ShardRepository struct {
	data *Data
	log  *log.Helper
}

// NewShardRepo creates the shard repository.
func NewShardRepo(data *Data, logger log.Logger) domain.ShardRepository {
	return &ShardRepository{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// FindByID fetches one shard by (id, tenant_id).
func (r *ShardRepository) FindByID(ctx context.Context, id, tenantID string) (*domain.Shard, error) {
	var po ShardPO
	err := r.data.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&po).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrShardNotFound
		}
		r.log.Errorf("failed to get shard %s: %v", id, err)
		return nil, err
	}
	return r.toDomainShard(&po), nil
}

// List returns one page of shards matching the filter, ordered by last
// update descending, with an opaque continuation cursor.
func (r *ShardRepository) List(
	ctx context.Context,
	filter domain.ShardFilter,
	limit int,
	cursor string,
) ([]*domain.Shard, string, bool, error) {
	query := r.applyFilter(r.data.db.WithContext(ctx).Model(&ShardPO{}), filter)

	if cursor != "" {
		ts, id, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", false, err
		}
		query = query.Where("(updated_at, id) < (?, ?)", ts, id)
	}

	// Fetch one extra row to learn whether another page exists.
	var pos []ShardPO
	if err := query.
		Order("updated_at DESC, id DESC").
		Limit(limit + 1).
		Find(&pos).Error; err != nil {
		r.log.Errorf("failed to list shards: %v", err)
		return nil, "", false, err
	}

	hasMore := len(pos) > limit
	if hasMore {
		pos = pos[:limit]
	}

	shards := make([]*domain.Shard, 0, len(pos))
	for i := range pos {
		shards = append(shards, r.toDomainShard(&pos[i]))
	}

	nextCursor := ""
	if hasMore && len(pos) > 0 {
		last := pos[len(pos)-1]
		nextCursor = encodeCursor(last.UpdatedAt, last.ID)
	}

	return shards, nextCursor, hasMore, nil
}

func (r *ShardRepository) applyFilter(query *gorm.DB, filter domain.ShardFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", filter.TenantID)

	if filter.ShardTypeID != "" {
		query = query.Where("shard_type_id = ?", string(filter.ShardTypeID))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Visibility != "" {
		query = query.Where("visibility = ?", filter.Visibility)
	}
	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", filter.DocumentType)
	}
	if len(filter.TagsAnyOf) > 0 {
		query = query.Where("jsonb_exists_any(tags, ?)", pq.Array(filter.TagsAnyOf))
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

func (r *ShardRepository) toDomainShard(po *ShardPO) *domain.Shard {
	var tags []string
	if po.Tags != "" {
		json.Unmarshal([]byte(po.Tags), &tags)
	}
	var data map[string]interface{}
	if po.Data != "" {
		json.Unmarshal([]byte(po.Data), &data)
	}

	return &domain.Shard{
		ID:           po.ID,
		TenantID:     po.TenantID,
		ShardTypeID:  domain.ShardType(po.ShardTypeID),
		Status:       domain.ShardStatus(po.Status),
		Name:         po.Name,
		Category:     po.Category,
		DocumentType: po.DocumentType,
		Visibility:   po.Visibility,
		Tags:         tags,
		Data:         data,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
}
