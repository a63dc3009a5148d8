package biz

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuvault/cmd/collection-service/internal/domain"
	"docuvault/pkg/auth"
)

func testShard(id, tenantID string) *domain.Shard {
	now := time.Now()
	return &domain.Shard{
		ID:          id,
		TenantID:    tenantID,
		ShardTypeID: domain.ShardTypeDocument,
		Status:      domain.ShardStatusActive,
		Name:        "doc " + id,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func manualFixture(t *testing.T, docIDs ...string) (*ManualResolver, *mockShardRepo, *mockPermissionRepo, auth.Identity) {
	t.Helper()
	shards := newMockShardRepo()
	grants := newMockPermissionRepo()
	id := auth.Identity{UserID: "user-1", TenantID: "tenant-1"}
	for _, docID := range docIDs {
		shards.add(testShard(docID, "tenant-1"))
		grants.allow(docID, "user-1", domain.PermissionRead)
	}
	authz := NewAuthzService(grants, log.DefaultLogger)
	return NewManualResolver(shards, authz, log.DefaultLogger), shards, grants, id
}

func TestManualResolvePaginationWindow(t *testing.T) {
	members := []string{"d1", "d2", "d3", "d4", "d5"}
	resolver, _, _, id := manualFixture(t, members...)

	docs, total, hasMore, err := resolver.Resolve(context.Background(), id, members, 2, 4)

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, docs, 1)
	assert.Equal(t, "d5", docs[0].ID)
	assert.False(t, hasMore)
}

func TestManualResolveFirstPageHasMore(t *testing.T) {
	members := []string{"d1", "d2", "d3", "d4", "d5"}
	resolver, _, _, id := manualFixture(t, members...)

	docs, total, hasMore, err := resolver.Resolve(context.Background(), id, members, 2, 0)

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, "d2", docs[1].ID)
	assert.True(t, hasMore)
}

func TestManualResolveOffsetBeyondEnd(t *testing.T) {
	members := []string{"d1", "d2"}
	resolver, _, _, id := manualFixture(t, members...)

	docs, total, hasMore, err := resolver.Resolve(context.Background(), id, members, 10, 50)

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, 2, total)
	assert.False(t, hasMore)
}

// A member deleted out of band is omitted from the page, but the total still
// reflects the full membership list.
func TestManualResolveMissingMemberOmitted(t *testing.T) {
	members := []string{"d1", "d2", "d3"}
	resolver, shards, _, id := manualFixture(t, members...)
	delete(shards.shards, "d2")

	docs, total, hasMore, err := resolver.Resolve(context.Background(), id, members, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, "d3", docs[1].ID)
	assert.False(t, hasMore)
}

func TestManualResolveUnreadableMemberDropped(t *testing.T) {
	members := []string{"d1", "d2", "d3"}
	resolver, _, grants, id := manualFixture(t, members...)
	require.NoError(t, grants.Revoke(context.Background(), "d2", "tenant-1", "user-1"))

	docs, total, _, err := resolver.Resolve(context.Background(), id, members, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, "d3", docs[1].ID)
}

func TestManualResolveEmptyMembership(t *testing.T) {
	resolver, _, _, id := manualFixture(t)

	docs, total, hasMore, err := resolver.Resolve(context.Background(), id, nil, 20, 0)

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, total)
	assert.False(t, hasMore)
}
