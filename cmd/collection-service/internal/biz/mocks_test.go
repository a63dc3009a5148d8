package biz

import (
	"context"
	"sync"

	"docuvault/cmd/collection-service/internal/domain"
)

// mockShardRepo backs tests with an in-memory shard map keyed by id.
type mockShardRepo struct {
	shards   map[string]*domain.Shard
	listFunc func(ctx context.Context, filter domain.ShardFilter, limit int, cursor string) ([]*domain.Shard, string, bool, error)
}

func newMockShardRepo() *mockShardRepo {
	return &mockShardRepo{shards: make(map[string]*domain.Shard)}
}

func (m *mockShardRepo) add(shard *domain.Shard) {
	m.shards[shard.ID] = shard
}

func (m *mockShardRepo) FindByID(ctx context.Context, id, tenantID string) (*domain.Shard, error) {
	shard, ok := m.shards[id]
	if !ok || shard.TenantID != tenantID {
		return nil, domain.ErrShardNotFound
	}
	return shard, nil
}

func (m *mockShardRepo) List(ctx context.Context, filter domain.ShardFilter, limit int, cursor string) ([]*domain.Shard, string, bool, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, limit, cursor)
	}
	return nil, "", false, nil
}

// mockCollectionRepo stores collections in memory.
type mockCollectionRepo struct {
	collections map[string]*domain.Collection
}

func newMockCollectionRepo() *mockCollectionRepo {
	return &mockCollectionRepo{collections: make(map[string]*domain.Collection)}
}

func (m *mockCollectionRepo) Create(ctx context.Context, coll *domain.Collection) error {
	for _, existing := range m.collections {
		if existing.TenantID == coll.TenantID && existing.Name == coll.Name {
			return domain.ErrCollectionNameTaken
		}
	}
	m.collections[coll.ID] = coll
	return nil
}

func (m *mockCollectionRepo) GetByID(ctx context.Context, id, tenantID string) (*domain.Collection, error) {
	coll, ok := m.collections[id]
	if !ok || coll.TenantID != tenantID || coll.IsDeleted() {
		return nil, domain.ErrCollectionNotFound
	}
	return coll, nil
}

func (m *mockCollectionRepo) Update(ctx context.Context, coll *domain.Collection) error {
	m.collections[coll.ID] = coll
	return nil
}

func (m *mockCollectionRepo) List(ctx context.Context, tenantID string, collType *domain.CollectionType, limit int, cursor string) ([]*domain.Collection, string, bool, error) {
	var out []*domain.Collection
	for _, coll := range m.collections {
		if coll.TenantID != tenantID || coll.IsDeleted() {
			continue
		}
		if collType != nil && coll.Type != *collType {
			continue
		}
		out = append(out, coll)
	}
	return out, "", false, nil
}

// mockPermissionRepo stores grants keyed by (resource, user).
type mockPermissionRepo struct {
	mu       sync.Mutex
	grants   map[string]*domain.PermissionGrant
	grantErr error
}

func newMockPermissionRepo() *mockPermissionRepo {
	return &mockPermissionRepo{grants: make(map[string]*domain.PermissionGrant)}
}

func grantKey(resourceID, userID string) string {
	return resourceID + "|" + userID
}

func (m *mockPermissionRepo) allow(resourceID, userID string, perms ...domain.Permission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[grantKey(resourceID, userID)] = domain.NewPermissionGrant(resourceID, "tenant-1", userID, perms)
}

func (m *mockPermissionRepo) Grant(ctx context.Context, grant *domain.PermissionGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grantErr != nil {
		return m.grantErr
	}
	m.grants[grantKey(grant.ResourceID, grant.UserID)] = grant
	return nil
}

func (m *mockPermissionRepo) Revoke(ctx context.Context, resourceID, tenantID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := grantKey(resourceID, userID)
	if _, ok := m.grants[key]; !ok {
		return domain.ErrGrantNotFound
	}
	delete(m.grants, key)
	return nil
}

func (m *mockPermissionRepo) GetGrant(ctx context.Context, resourceID, tenantID, userID string) (*domain.PermissionGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grant, ok := m.grants[grantKey(resourceID, userID)]
	if !ok {
		return nil, domain.ErrGrantNotFound
	}
	return grant, nil
}

// mockAuditPublisher records published events; safe for the async emitter.
type mockAuditPublisher struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
}

func (m *mockAuditPublisher) Publish(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockAuditPublisher) Close() error { return nil }
