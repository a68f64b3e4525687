package repository

import (
	"context"
	"errors"

	"comercia/domain"
)

// RoleResolver serves the authenticator's per-request role lookup,
// cache first and database second. A role belonging to a different tenant
// than the token claims resolves to nothing.
type RoleResolver struct {
	repo  *RoleRepository
	cache *RoleCache
}

func NewRoleResolver(repo *RoleRepository, cache *RoleCache) *RoleResolver {
	return &RoleResolver{
		repo:  repo,
		cache: cache,
	}
}

func (r *RoleResolver) Resolve(ctx context.Context, tenantID, roleID string) (*domain.Role, error) {
	if tenantID == "" || roleID == "" {
		return nil, nil
	}

	if role := r.cache.Get(ctx, tenantID, roleID); role != nil {
		return role, nil
	}

	role, err := r.repo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if role.TenantID != tenantID {
		return nil, nil
	}

	r.cache.Set(ctx, role)
	return role, nil
}
