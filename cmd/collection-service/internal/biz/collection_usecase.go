package biz

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/go-kratos/kratos/v2/log"

	"docuvault/cmd/collection-service/internal/domain"
	"docuvault/pkg/auth"
	"docuvault/pkg/monitoring"
)

// CreateCollectionInput carries the fields of a create request.
type CreateCollectionInput struct {
	Name        string
	Description string
	Type        domain.CollectionType
	Visibility  domain.Visibility
	Tags        []string
	Query       *domain.CollectionQuery
}

// UpdateCollectionInput carries a partial update. Nil fields are unchanged.
type UpdateCollectionInput struct {
	Name        *string
	Description *string
	Visibility  *domain.Visibility
	Tags        []string
	Query       *domain.CollectionQuery
}

// DocumentPage is the paginated membership response.
//
// Total is exact for folder/tag collections (the unfiltered membership
// count) but approximate for smart collections (the size of the fetched
// window). The asymmetry is part of the contract.
type DocumentPage struct {
	Documents []*domain.Shard
	Total     int
	Limit     int
	Offset    int
	HasMore   bool
}

// CollectionPage is a cursor-paginated page of collections.
type CollectionPage struct {
	Collections []*domain.Collection
	NextCursor  string
	HasMore     bool
}

// CollectionUsecase orchestrates collection operations: permission checks,
// dispatch to the smart or manual resolution path, and response assembly.
type CollectionUsecase struct {
	collections domain.CollectionRepository
	shards      domain.ShardRepository
	manual      *ManualResolver
	smart       *SmartResolver
	authz       *AuthzService
	auditor     *Auditor
	log         *log.Helper
}

// NewCollectionUsecase creates the collection usecase.
func NewCollectionUsecase(
	collections domain.CollectionRepository,
	shards domain.ShardRepository,
	manual *ManualResolver,
	smart *SmartResolver,
	authz *AuthzService,
	auditor *Auditor,
	logger log.Logger,
) *CollectionUsecase {
	return &CollectionUsecase{
		collections: collections,
		shards:      shards,
		manual:      manual,
		smart:       smart,
		authz:       authz,
		auditor:     auditor,
		log:         log.NewHelper(logger),
	}
}

// CreateCollection creates a collection and grants the owner the full
// permission set on it.
func (uc *CollectionUsecase) CreateCollection(
	ctx context.Context,
	id auth.Identity,
	input CreateCollectionInput,
) (*domain.Collection, error) {
	coll := domain.NewCollection(
		id.TenantID,
		id.UserID,
		input.Name,
		input.Description,
		input.Type,
		input.Visibility,
		input.Tags,
		input.Query,
	)
	if err := coll.Validate(); err != nil {
		return nil, err
	}
	if coll.IsSmart() && coll.Query.IsEmpty() {
		// An empty smart query would match every active document of the
		// tenant; reject it at creation instead of over-matching later.
		return nil, domain.ErrSmartQueryRequired
	}

	if err := uc.collections.Create(ctx, coll); err != nil {
		return nil, err
	}

	grant := domain.NewPermissionGrant(coll.ID, id.TenantID, id.UserID, domain.FullPermissions())
	if err := uc.authz.grants.Grant(ctx, grant); err != nil {
		uc.log.WithContext(ctx).Errorf("failed to grant owner permissions on %s: %v", coll.ID, err)
		// Without the owner grant nobody can read the row; take it back out
		// rather than leaving an orphan behind.
		coll.MarkDeleted()
		if rbErr := uc.collections.Update(ctx, coll); rbErr != nil {
			uc.log.WithContext(ctx).Errorf("failed to roll back collection %s: %v", coll.ID, rbErr)
		}
		return nil, err
	}

	uc.auditor.Emit(id, "collection.created", coll.ID, map[string]interface{}{
		"name": coll.Name,
		"type": string(coll.Type),
	})
	uc.log.WithContext(ctx).Infof("created collection %s (%s) for tenant %s", coll.ID, coll.Type, id.TenantID)
	return coll, nil
}

// GetCollection fetches one collection. Existence is checked before
// permission, so an absent collection yields NotFound and an existing but
// unauthorized one yields PermissionDenied.
func (uc *CollectionUsecase) GetCollection(ctx context.Context, id auth.Identity, collectionID string) (*domain.Collection, error) {
	return uc.authorizedCollection(ctx, id, collectionID, domain.PermissionRead)
}

// ListCollections returns a cursor-paginated page of the tenant's
// collections, dropping ones the caller cannot read.
func (uc *CollectionUsecase) ListCollections(
	ctx context.Context,
	id auth.Identity,
	collType *domain.CollectionType,
	limit int,
	cursor string,
) (*CollectionPage, error) {
	colls, nextCursor, hasMore, err := uc.collections.List(ctx, id.TenantID, collType, limit, cursor)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Collection, 0, len(colls))
	for _, coll := range colls {
		allowed, err := uc.authz.CheckPermission(ctx, id, coll.ID, domain.PermissionRead)
		if err != nil {
			uc.log.WithContext(ctx).Warnf("list permission check failed for %s: %v", coll.ID, err)
			continue
		}
		if allowed {
			visible = append(visible, coll)
		}
	}

	return &CollectionPage{
		Collections: visible,
		NextCursor:  nextCursor,
		HasMore:     hasMore,
	}, nil
}

// UpdateCollection applies a partial update. Requires WRITE.
func (uc *CollectionUsecase) UpdateCollection(
	ctx context.Context,
	id auth.Identity,
	collectionID string,
	input UpdateCollectionInput,
) (*domain.Collection, error) {
	coll, err := uc.authorizedCollection(ctx, id, collectionID, domain.PermissionWrite)
	if err != nil {
		return nil, err
	}

	if input.Query != nil && coll.IsSmart() && input.Query.IsEmpty() {
		// Same rule as creation: an empty smart query would match every
		// active document of the tenant. Checked before mutation so a
		// rejected update leaves the stored query intact.
		return nil, domain.ErrSmartQueryRequired
	}

	coll.Update(input.Name, input.Description, input.Visibility, input.Tags, input.Query)
	if err := coll.Validate(); err != nil {
		return nil, err
	}

	if err := uc.collections.Update(ctx, coll); err != nil {
		return nil, err
	}

	uc.auditor.Emit(id, "collection.updated", coll.ID, nil)
	return coll, nil
}

// DeleteCollection soft-deletes the grouping. Member documents are owned
// elsewhere and are never deleted here. Requires DELETE.
func (uc *CollectionUsecase) DeleteCollection(ctx context.Context, id auth.Identity, collectionID string) error {
	coll, err := uc.authorizedCollection(ctx, id, collectionID, domain.PermissionDelete)
	if err != nil {
		return err
	}

	coll.MarkDeleted()
	if err := uc.collections.Update(ctx, coll); err != nil {
		return err
	}

	uc.auditor.Emit(id, "collection.deleted", coll.ID, map[string]interface{}{
		"member_count": len(coll.DocumentIDs),
	})
	uc.log.WithContext(ctx).Infof("soft-deleted collection %s, %d members retained", coll.ID, len(coll.DocumentIDs))
	return nil
}

// AddDocuments adds member IDs to a folder/tag collection, deduplicated.
// Every target document must exist and be readable by the caller; if any is
// not, the whole request fails with per-ID details and the membership is
// left unchanged. Requires WRITE on the collection.
func (uc *CollectionUsecase) AddDocuments(
	ctx context.Context,
	id auth.Identity,
	collectionID string,
	documentIDs []string,
) (*domain.Collection, error) {
	if len(documentIDs) == 0 {
		return nil, domain.ErrEmptyDocumentIDs
	}

	coll, err := uc.authorizedCollection(ctx, id, collectionID, domain.PermissionWrite)
	if err != nil {
		return nil, err
	}
	if coll.IsSmart() {
		return nil, domain.ErrInvalidCollectionType
	}

	unique := dedupe(documentIDs)
	failures := uc.verifyMembersReadable(ctx, id, unique)
	if len(failures) > 0 {
		return nil, &domain.MemberAccessError{Failures: failures}
	}

	added := coll.AddDocuments(unique)
	if err := uc.collections.Update(ctx, coll); err != nil {
		return nil, err
	}

	uc.auditor.Emit(id, "collection.members_added", coll.ID, map[string]interface{}{
		"requested": len(documentIDs),
		"added":     added,
	})
	return coll, nil
}

// RemoveDocument removes one member ID. Requires WRITE on the collection.
func (uc *CollectionUsecase) RemoveDocument(
	ctx context.Context,
	id auth.Identity,
	collectionID, documentID string,
) (*domain.Collection, error) {
	coll, err := uc.authorizedCollection(ctx, id, collectionID, domain.PermissionWrite)
	if err != nil {
		return nil, err
	}

	if err := coll.RemoveDocument(documentID); err != nil {
		return nil, err
	}
	if err := uc.collections.Update(ctx, coll); err != nil {
		return nil, err
	}

	uc.auditor.Emit(id, "collection.member_removed", coll.ID, map[string]interface{}{
		"document_id": documentID,
	})
	return coll, nil
}

// GetCollectionDocuments resolves the paginated member documents of a
// collection: smart collections execute their stored query, the rest
// resolve their explicit member list. Every resolved document passes one
// more permission check before inclusion, regardless of path; upstream
// filters may be stale or partially applied, and a drop here costs one
// omitted item rather than a leaked one.
func (uc *CollectionUsecase) GetCollectionDocuments(
	ctx context.Context,
	id auth.Identity,
	collectionID string,
	limit, offset int,
) (*DocumentPage, error) {
	coll, err := uc.authorizedCollection(ctx, id, collectionID, domain.PermissionRead)
	if err != nil {
		return nil, err
	}

	var (
		docs    []*domain.Shard
		total   int
		hasMore bool
	)
	if coll.IsSmart() {
		docs, total, hasMore, err = uc.smart.Resolve(ctx, id.TenantID, coll.Query, limit, offset)
	} else {
		docs, total, hasMore, err = uc.manual.Resolve(ctx, id, coll.DocumentIDs, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	docs = uc.secondPermissionPass(ctx, id, docs)

	return &DocumentPage{
		Documents: docs,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
		HasMore:   hasMore,
	}, nil
}

// GrantPermission grants permissions on a collection to a user. Requires
// ADMIN on the collection.
func (uc *CollectionUsecase) GrantPermission(
	ctx context.Context,
	id auth.Identity,
	collectionID, userID string,
	permissions []domain.Permission,
) error {
	coll, err := uc.authorizedCollection(ctx, id, collectionID, domain.PermissionAdmin)
	if err != nil {
		return err
	}

	grant := domain.NewPermissionGrant(coll.ID, id.TenantID, userID, permissions)
	if err := uc.authz.grants.Grant(ctx, grant); err != nil {
		return err
	}

	uc.auditor.Emit(id, "collection.permission_granted", coll.ID, map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// RevokePermission removes a user's grant on a collection. Requires ADMIN.
func (uc *CollectionUsecase) RevokePermission(
	ctx context.Context,
	id auth.Identity,
	collectionID, userID string,
) error {
	coll, err := uc.authorizedCollection(ctx, id, collectionID, domain.PermissionAdmin)
	if err != nil {
		return err
	}

	if err := uc.authz.grants.Revoke(ctx, coll.ID, id.TenantID, userID); err != nil {
		return err
	}

	uc.auditor.Emit(id, "collection.permission_revoked", coll.ID, map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// authorizedCollection loads a collection and enforces a permission on it.
// Existence is resolved first: NotFound if absent, then PermissionDenied if
// present but unauthorized.
func (uc *CollectionUsecase) authorizedCollection(
	ctx context.Context,
	id auth.Identity,
	collectionID string,
	perm domain.Permission,
) (*domain.Collection, error) {
	coll, err := uc.collections.GetByID(ctx, collectionID, id.TenantID)
	if err != nil {
		return nil, err
	}

	allowed, err := uc.authz.CheckPermission(ctx, id, coll.ID, perm)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrPermissionDenied
	}
	return coll, nil
}

// verifyMembersReadable checks concurrently that every target document
// exists and is readable by the caller, returning per-ID failures in input
// order. Unlike resolution, verification is all-or-nothing: the caller
// either may add every document or adds none.
func (uc *CollectionUsecase) verifyMembersReadable(
	ctx context.Context,
	id auth.Identity,
	documentIDs []string,
) []domain.MemberFailure {
	type indexed struct {
		idx     int
		failure domain.MemberFailure
	}

	results := make(chan indexed, len(documentIDs))
	var wg sync.WaitGroup
	for i, docID := range documentIDs {
		wg.Add(1)
		go func(i int, docID string) {
			defer wg.Done()

			shard, err := uc.shards.FindByID(ctx, docID, id.TenantID)
			if err != nil {
				reason := domain.MemberFailureNotFound
				if !errors.Is(err, domain.ErrShardNotFound) {
					uc.log.WithContext(ctx).Warnf("member verification fetch failed for %s: %v", docID, err)
					reason = domain.MemberFailureNoPermission
				}
				results <- indexed{i, domain.MemberFailure{ID: docID, Reason: reason}}
				return
			}

			allowed, err := uc.authz.CheckPermission(ctx, id, shard.ID, domain.PermissionRead)
			if err != nil || !allowed {
				results <- indexed{i, domain.MemberFailure{ID: docID, Reason: domain.MemberFailureNoPermission}}
			}
		}(i, docID)
	}
	wg.Wait()
	close(results)

	collected := make([]indexed, 0, len(documentIDs))
	for res := range results {
		collected = append(collected, res)
	}
	sort.Slice(collected, func(a, b int) bool { return collected[a].idx < collected[b].idx })

	failures := make([]domain.MemberFailure, 0, len(collected))
	for _, res := range collected {
		failures = append(failures, res.failure)
	}
	return failures
}

// secondPermissionPass re-verifies READ on every resolved document.
// Failures drop the item without erroring the request.
func (uc *CollectionUsecase) secondPermissionPass(
	ctx context.Context,
	id auth.Identity,
	docs []*domain.Shard,
) []*domain.Shard {
	slots := make([]*domain.Shard, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc *domain.Shard) {
			defer wg.Done()

			allowed, err := uc.authz.CheckPermission(ctx, id, doc.ID, domain.PermissionRead)
			if err != nil {
				uc.log.WithContext(ctx).Warnf("second pass check failed for %s: %v", doc.ID, err)
				monitoring.MemberResolutionDrops.WithLabelValues("fetch_error").Inc()
				return
			}
			if !allowed {
				monitoring.MemberResolutionDrops.WithLabelValues("no_permission").Inc()
				return
			}
			slots[i] = doc
		}(i, doc)
	}
	wg.Wait()

	kept := make([]*domain.Shard, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return kept
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
