package biz

import (
	"github.com/go-kratos/kratos/v2/log"

	"docuvault/cmd/collection-service/internal/domain"
)

// QueryTranslator maps a stored CollectionQuery onto the shard store's
// native filter shape.
type QueryTranslator struct {
	log *log.Helper
}

// NewQueryTranslator creates a query translator.
func NewQueryTranslator(logger log.Logger) *QueryTranslator {
	return &QueryTranslator{log: log.NewHelper(logger)}
}

// Translate builds the shard filter for a smart collection query. The base
// filter always constrains to active document shards of the tenant, so an
// empty query matches every active document the tenant owns.
//
// Category, Visibility and DocumentType honor only the first array element;
// extra elements are accepted and silently dropped. Tags is passed through
// whole and evaluated as "any of" by the store.
func (t *QueryTranslator) Translate(query *domain.CollectionQuery, tenantID string) domain.ShardFilter {
	filter := domain.ShardFilter{
		TenantID:    tenantID,
		ShardTypeID: domain.ShardTypeDocument,
		Status:      domain.ShardStatusActive,
	}
	if query == nil {
		return filter
	}

	f := query.Filters
	if len(f.Category) > 0 {
		filter.Category = f.Category[0]
		if len(f.Category) > 1 {
			t.log.Warnf("query category has %d values, only %q is applied", len(f.Category), f.Category[0])
		}
	}
	if len(f.Visibility) > 0 {
		filter.Visibility = f.Visibility[0]
		if len(f.Visibility) > 1 {
			t.log.Warnf("query visibility has %d values, only %q is applied", len(f.Visibility), f.Visibility[0])
		}
	}
	if len(f.DocumentType) > 0 {
		filter.DocumentType = f.DocumentType[0]
		if len(f.DocumentType) > 1 {
			t.log.Warnf("query documentType has %d values, only %q is applied", len(f.DocumentType), f.DocumentType[0])
		}
	}
	if len(f.Tags) > 0 {
		filter.TagsAnyOf = f.Tags
	}
	if f.DateRange != nil {
		filter.CreatedAfter = f.DateRange.Start
		filter.CreatedBefore = f.DateRange.End
	}

	return filter
}
