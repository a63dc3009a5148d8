package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"docuvault/cmd/collection-service/internal/domain"
)

// MaxSmartOffset is the deepest numeric offset a smart collection accepts.
//
// The shard store paginates with continuation cursors only, so numeric
// offset is emulated by fetching limit+offset rows and slicing. The window
// grows linearly with offset and a single fetch cannot be guaranteed to
// reach arbitrarily deep pages, so depth is capped rather than silently
// returning wrong pages. Callers needing deeper traversal should use the
// cursor-based collection listing instead.
const MaxSmartOffset = 1000

// SmartResolver executes a smart collection's translated query and
// paginates the results.
type SmartResolver struct {
	shards     domain.ShardRepository
	translator *QueryTranslator
	log        *log.Helper
}

// NewSmartResolver creates a smart collection resolver.
func NewSmartResolver(shards domain.ShardRepository, translator *QueryTranslator, logger log.Logger) *SmartResolver {
	return &SmartResolver{
		shards:     shards,
		translator: translator,
		log:        log.NewHelper(logger),
	}
}

// Resolve runs the query and slices the requested page out of a single
// limit+offset window, ordered by last update descending.
//
// The returned total is the count of rows in the fetched window, not an
// exact match count; it is an approximation and deliberately weaker than
// the manual resolver's total. Query execution failure is fatal to the
// request, since no partial result is meaningful when the filter itself
// could not be evaluated.
func (r *SmartResolver) Resolve(
	ctx context.Context,
	tenantID string,
	query *domain.CollectionQuery,
	limit, offset int,
) ([]*domain.Shard, int, bool, error) {
	if offset > MaxSmartOffset {
		return nil, 0, false, domain.ErrOffsetTooLarge
	}

	filter := r.translator.Translate(query, tenantID)

	window := limit + offset
	shards, _, storeHasMore, err := r.shards.List(ctx, filter, window, "")
	if err != nil {
		r.log.WithContext(ctx).Errorf("smart query execution failed: %v", err)
		return nil, 0, false, fmt.Errorf("execute smart query: %w", err)
	}

	total := len(shards)

	if offset >= total {
		return []*domain.Shard{}, total, storeHasMore, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	hasMore := storeHasMore || end < total
	return shards[offset:end], total, hasMore, nil
}
