package biz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuvault/cmd/collection-service/internal/domain"
)

func smartFixture(listFunc func(ctx context.Context, filter domain.ShardFilter, limit int, cursor string) ([]*domain.Shard, string, bool, error)) *SmartResolver {
	shards := newMockShardRepo()
	shards.listFunc = listFunc
	translator := NewQueryTranslator(log.DefaultLogger)
	return NewSmartResolver(shards, translator, log.DefaultLogger)
}

func salesQuery() *domain.CollectionQuery {
	return &domain.CollectionQuery{
		Filters: domain.QueryFilters{Category: []string{"sales"}},
	}
}

func TestSmartResolveFetchesLimitPlusOffsetWindow(t *testing.T) {
	var gotLimit int
	resolver := smartFixture(func(ctx context.Context, filter domain.ShardFilter, limit int, cursor string) ([]*domain.Shard, string, bool, error) {
		gotLimit = limit
		out := make([]*domain.Shard, limit)
		for i := range out {
			out[i] = testShard(fmt.Sprintf("d%d", i+1), "tenant-1")
		}
		return out, "next", true, nil
	})

	docs, total, hasMore, err := resolver.Resolve(context.Background(), "tenant-1", salesQuery(), 2, 3)

	require.NoError(t, err)
	assert.Equal(t, 5, gotLimit)
	require.Len(t, docs, 2)
	assert.Equal(t, "d4", docs[0].ID)
	assert.Equal(t, "d5", docs[1].ID)
	assert.True(t, hasMore)
	// Total is the fetched window size, not an exact match count.
	assert.Equal(t, 5, total)
}

func TestSmartResolveShortWindowNoMore(t *testing.T) {
	resolver := smartFixture(func(ctx context.Context, filter domain.ShardFilter, limit int, cursor string) ([]*domain.Shard, string, bool, error) {
		return []*domain.Shard{
			testShard("d1", "tenant-1"),
			testShard("d2", "tenant-1"),
			testShard("d3", "tenant-1"),
		}, "", false, nil
	})

	docs, total, hasMore, err := resolver.Resolve(context.Background(), "tenant-1", salesQuery(), 10, 2)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d3", docs[0].ID)
	assert.Equal(t, 3, total)
	assert.False(t, hasMore)
}

func TestSmartResolveOffsetPastWindow(t *testing.T) {
	resolver := smartFixture(func(ctx context.Context, filter domain.ShardFilter, limit int, cursor string) ([]*domain.Shard, string, bool, error) {
		return []*domain.Shard{testShard("d1", "tenant-1")}, "", false, nil
	})

	docs, total, hasMore, err := resolver.Resolve(context.Background(), "tenant-1", salesQuery(), 5, 10)

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, 1, total)
	assert.False(t, hasMore)
}

func TestSmartResolveOffsetCap(t *testing.T) {
	resolver := smartFixture(nil)

	_, _, _, err := resolver.Resolve(context.Background(), "tenant-1", salesQuery(), 20, MaxSmartOffset+1)

	assert.ErrorIs(t, err, domain.ErrOffsetTooLarge)
}

func TestSmartResolveQueryFailureIsFatal(t *testing.T) {
	storeErr := errors.New("index unavailable")
	resolver := smartFixture(func(ctx context.Context, filter domain.ShardFilter, limit int, cursor string) ([]*domain.Shard, string, bool, error) {
		return nil, "", false, storeErr
	})

	_, _, _, err := resolver.Resolve(context.Background(), "tenant-1", salesQuery(), 20, 0)

	assert.ErrorIs(t, err, storeErr)
}

func TestSmartResolvePassesTranslatedFilter(t *testing.T) {
	var gotFilter domain.ShardFilter
	resolver := smartFixture(func(ctx context.Context, filter domain.ShardFilter, limit int, cursor string) ([]*domain.Shard, string, bool, error) {
		gotFilter = filter
		return nil, "", false, nil
	})

	query := &domain.CollectionQuery{
		Filters: domain.QueryFilters{
			Category: []string{"sales", "hr"},
			Tags:     []string{"q1", "deals"},
		},
	}
	_, _, _, err := resolver.Resolve(context.Background(), "tenant-1", query, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, "tenant-1", gotFilter.TenantID)
	assert.Equal(t, domain.ShardStatusActive, gotFilter.Status)
	assert.Equal(t, "sales", gotFilter.Category)
	assert.Equal(t, []string{"q1", "deals"}, gotFilter.TagsAnyOf)
}
