package biz

import (
	"context"
	"errors"
	"sync"

	"github.com/go-kratos/kratos/v2/log"

	"docuvault/cmd/collection-service/internal/domain"
	"docuvault/pkg/auth"
	"docuvault/pkg/monitoring"
)

// ManualResolver resolves the explicit member list of folder/tag
// collections into fetched, permission-filtered documents.
type ManualResolver struct {
	shards domain.ShardRepository
	authz  *AuthzService
	log    *log.Helper
}

// NewManualResolver creates a manual membership resolver.
func NewManualResolver(shards domain.ShardRepository, authz *AuthzService, logger log.Logger) *ManualResolver {
	return &ManualResolver{
		shards: shards,
		authz:  authz,
		log:    log.NewHelper(logger),
	}
}

// Resolve pages through documentIDs and fetches the window.
//
// Pagination is applied to the ID list before fetching, so total is always
// the full membership count, even when documents in the window are dropped
// because they no longer exist or the caller cannot read them. The returned
// page may therefore be shorter than limit.
//
// Per-ID fetches and permission checks run concurrently; a failure on one
// member degrades it to an omission instead of failing the request.
func (r *ManualResolver) Resolve(
	ctx context.Context,
	id auth.Identity,
	documentIDs []string,
	limit, offset int,
) ([]*domain.Shard, int, bool, error) {
	total := len(documentIDs)

	if offset >= total {
		return []*domain.Shard{}, total, false, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	window := documentIDs[offset:end]

	// Slots keep the membership order stable; dropped members leave nil.
	slots := make([]*domain.Shard, len(window))
	var wg sync.WaitGroup
	for i, docID := range window {
		wg.Add(1)
		go func(i int, docID string) {
			defer wg.Done()

			shard, err := r.shards.FindByID(ctx, docID, id.TenantID)
			if err != nil {
				if errors.Is(err, domain.ErrShardNotFound) {
					monitoring.MemberResolutionDrops.WithLabelValues("not_found").Inc()
					return
				}
				r.log.WithContext(ctx).Warnf("member fetch failed for %s: %v", docID, err)
				monitoring.MemberResolutionDrops.WithLabelValues("fetch_error").Inc()
				return
			}

			allowed, err := r.authz.CheckPermission(ctx, id, shard.ID, domain.PermissionRead)
			if err != nil {
				r.log.WithContext(ctx).Warnf("member permission check failed for %s: %v", docID, err)
				monitoring.MemberResolutionDrops.WithLabelValues("fetch_error").Inc()
				return
			}
			if !allowed {
				monitoring.MemberResolutionDrops.WithLabelValues("no_permission").Inc()
				return
			}

			slots[i] = shard
		}(i, docID)
	}
	wg.Wait()

	docs := make([]*domain.Shard, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			docs = append(docs, s)
		}
	}

	hasMore := offset+limit < total
	return docs, total, hasMore, nil
}
