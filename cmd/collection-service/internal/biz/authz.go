package biz

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"docuvault/cmd/collection-service/internal/domain"
	"docuvault/pkg/auth"
)

// AuthzService answers per-operation permission questions against stored
// grants. Results are never cached here: every request re-checks fully, so
// a revocation takes effect on the next call.
type AuthzService struct {
	grants domain.PermissionRepository
	log    *log.Helper
}

// NewAuthzService creates an authz service.
func NewAuthzService(grants domain.PermissionRepository, logger log.Logger) *AuthzService {
	return &AuthzService{
		grants: grants,
		log:    log.NewHelper(logger),
	}
}

// CheckPermission reports whether the caller holds the permission on the
// resource. An absent grant denies; it is not an error.
func (s *AuthzService) CheckPermission(
	ctx context.Context,
	id auth.Identity,
	resourceID string,
	perm domain.Permission,
) (bool, error) {
	grant, err := s.grants.GetGrant(ctx, resourceID, id.TenantID, id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrGrantNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get grant: %w", err)
	}
	return grant.Allows(perm), nil
}
