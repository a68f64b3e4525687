package usecase

import (
	"context"
	"errors"

	"comercia/bootstrap"
	"comercia/domain"
	"comercia/modules/role/repository"
	"comercia/pkg/log"
)

type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	FindByID(ctx context.Context, roleID string) (*domain.Role, error)
	FindByTenantAndCode(ctx context.Context, tenantID, code string) (*domain.Role, error)
	FindPage(ctx context.Context, filter *domain.RoleFilter, option *domain.FindPageOption) ([]*domain.Role, *domain.Pagination, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, roleID string) error
	UpsertSystemRole(ctx context.Context, role *domain.Role) (*domain.Role, error)
}

// AssignmentCounter reports how many users currently hold a role. The user
// module provides it, keeping the dependency pointed at an interface rather
// than at the module itself.
type AssignmentCounter interface {
	CountByRole(ctx context.Context, roleID string) (int64, error)
}

type RoleUsecase struct {
	roleRepo    RoleRepository
	roleCache   *repository.RoleCache
	assignments AssignmentCounter
	templates   *bootstrap.Registry
	provisioner *bootstrap.TenantProvisioner
	logger      log.Logger
}

func NewRoleUsecase(
	roleRepo RoleRepository,
	roleCache *repository.RoleCache,
	assignments AssignmentCounter,
	templates *bootstrap.Registry,
	logger log.Logger,
) *RoleUsecase {
	return &RoleUsecase{
		roleRepo:    roleRepo,
		roleCache:   roleCache,
		assignments: assignments,
		templates:   templates,
		provisioner: bootstrap.NewTenantProvisioner(templates, roleRepo, logger),
		logger:      logger,
	}
}

// Create adds a custom role to the tenant. System roles come only from
// provisioning, so is_system_role in the request is rejected outright.
func (uc *RoleUsecase) Create(ctx context.Context, tenantID, actorID string, req *domain.RoleCreateRequest) (*domain.Role, error) {
	if req.IsSystemRole {
		return nil, domain.ErrSystemRoleCreateForbidden
	}

	role := &domain.Role{
		TenantID:    tenantID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Grant:       req.Grant.Clone(),
		Color:       req.Color,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		Active:      true,
		CreatedBy:   actorID,
		ModifiedBy:  actorID,
	}
	if req.Special != nil {
		role.Special = *req.Special
	}

	// A named template seeds the permissions; explicit grants in the
	// request override the template resource by resource.
	if req.BaseTemplate != "" {
		tpl, err := uc.templates.ByCode(req.BaseTemplate)
		if err != nil {
			return nil, err
		}
		role.BaseTemplate = tpl.Code
		role.Grant = domain.MergeGrants(tpl.Grant, req.Grant)
		if req.Special == nil {
			role.Special = tpl.Special
		}
	}

	if err := role.Validate(); err != nil {
		return nil, err
	}

	if err := uc.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	uc.logger.Info("role created",
		log.TenantID(tenantID),
		log.RoleID(role.ID),
		log.String("code", role.Code),
		log.UserID(actorID),
	)
	return role, nil
}

func (uc *RoleUsecase) Update(ctx context.Context, tenantID, actorID, roleID string, req *domain.RoleUpdateRequest) (*domain.Role, error) {
	role, err := uc.findTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}
	if role.IsSystemRole {
		return nil, domain.ErrRoleImmutable
	}
	if req.Code != nil && *req.Code != role.Code {
		return nil, domain.ErrRoleCodeImmutable
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Grant != nil {
		role.Grant = req.Grant.Clone()
	}
	if req.Special != nil {
		role.Special = *req.Special
	}
	if req.Color != nil {
		role.Color = *req.Color
	}
	if req.Icon != nil {
		role.Icon = *req.Icon
	}
	if req.SortOrder != nil {
		role.SortOrder = *req.SortOrder
	}
	role.ModifiedBy = actorID

	if err := role.Validate(); err != nil {
		return nil, err
	}
	if err := uc.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	uc.roleCache.Invalidate(ctx, tenantID, roleID)
	uc.logger.Info("role updated",
		log.TenantID(tenantID),
		log.RoleID(roleID),
		log.UserID(actorID),
	)
	return role, nil
}

// Deactivate retires a role without breaking existing user rows. The
// evaluator denies every check for an inactive role, so holders lose
// access immediately even though the assignment remains.
func (uc *RoleUsecase) Deactivate(ctx context.Context, tenantID, roleID string) (*domain.Role, error) {
	role, err := uc.findTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}
	if role.IsSystemRole {
		return nil, domain.ErrRoleImmutable
	}
	if !role.Active {
		return role, nil
	}

	role.Active = false
	if err := uc.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	uc.roleCache.Invalidate(ctx, tenantID, roleID)
	uc.logger.Info("role deactivated", log.TenantID(tenantID), log.RoleID(roleID))
	return role, nil
}

func (uc *RoleUsecase) Delete(ctx context.Context, tenantID, roleID string) error {
	role, err := uc.findTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return err
	}
	if role.IsSystemRole {
		return domain.ErrRoleImmutable
	}

	count, err := uc.assignments.CountByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrRoleInUse.WithDebugf("role still held by %d users", count)
	}

	if err := uc.roleRepo.Delete(ctx, roleID); err != nil {
		return err
	}

	uc.roleCache.Invalidate(ctx, tenantID, roleID)
	uc.logger.Info("role deleted", log.TenantID(tenantID), log.RoleID(roleID))
	return nil
}

func (uc *RoleUsecase) FindByID(ctx context.Context, tenantID, roleID string) (*domain.Role, error) {
	return uc.findTenantRole(ctx, tenantID, roleID)
}

func (uc *RoleUsecase) FindByTenantAndCode(ctx context.Context, tenantID, code string) (*domain.Role, error) {
	role, err := uc.roleRepo.FindByTenantAndCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

func (uc *RoleUsecase) FindPage(ctx context.Context, filter *domain.RoleFilter, option *domain.FindPageOption) ([]*domain.Role, *domain.Pagination, error) {
	return uc.roleRepo.FindPage(ctx, filter, option)
}

// ProvisionTenant installs or refreshes the tenant's system roles from the
// template registry. Safe to call repeatedly.
func (uc *RoleUsecase) ProvisionTenant(ctx context.Context, tenantID string) ([]*domain.Role, error) {
	roles, err := uc.provisioner.Provision(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	uc.roleCache.InvalidateTenant(ctx, tenantID)
	return roles, nil
}

// findTenantRole resolves a role and hides roles of other tenants behind
// not-found, so probing ids across tenants leaks nothing.
func (uc *RoleUsecase) findTenantRole(ctx context.Context, tenantID, roleID string) (*domain.Role, error) {
	role, err := uc.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	if role.TenantID != tenantID {
		return nil, domain.ErrRoleNotFound
	}
	return role, nil
}
