package usecase

import (
	"context"
	"fmt"
	"testing"

	"comercia/bootstrap"
	"comercia/domain"
	"comercia/modules/role/repository"
	"comercia/pkg/cache"
	"comercia/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoleRepo struct {
	roles  map[string]*domain.Role
	nextID int
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[string]*domain.Role{}}
}

func (r *fakeRoleRepo) put(role *domain.Role) *domain.Role {
	if role.ID == "" {
		r.nextID++
		role.ID = fmt.Sprintf("role-%d", r.nextID)
	}
	copied := *role
	r.roles[role.ID] = &copied
	return role
}

func (r *fakeRoleRepo) Create(_ context.Context, role *domain.Role) error {
	for _, existing := range r.roles {
		if existing.TenantID == role.TenantID && existing.Code == role.Code {
			return domain.ErrRoleCodeConflict
		}
	}
	r.put(role)
	return nil
}

func (r *fakeRoleRepo) FindByID(_ context.Context, roleID string) (*domain.Role, error) {
	role, ok := r.roles[roleID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	copied := *role
	return &copied, nil
}

func (r *fakeRoleRepo) FindByTenantAndCode(_ context.Context, tenantID, code string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.TenantID == tenantID && role.Code == code {
			copied := *role
			return &copied, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakeRoleRepo) FindPage(_ context.Context, filter *domain.RoleFilter, _ *domain.FindPageOption) ([]*domain.Role, *domain.Pagination, error) {
	var out []*domain.Role
	for _, role := range r.roles {
		if filter != nil && filter.TenantID != nil && role.TenantID != *filter.TenantID {
			continue
		}
		copied := *role
		out = append(out, &copied)
	}
	return out, &domain.Pagination{TotalItems: int64(len(out))}, nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *domain.Role) error {
	if _, ok := r.roles[role.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	r.put(role)
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, roleID string) error {
	delete(r.roles, roleID)
	return nil
}

func (r *fakeRoleRepo) UpsertSystemRole(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if existing, err := r.FindByTenantAndCode(context.Background(), role.TenantID, role.Code); err == nil {
		role.ID = existing.ID
	}
	return r.put(role), nil
}

type fakeAssignments struct {
	counts map[string]int64
}

func (f *fakeAssignments) CountByRole(_ context.Context, roleID string) (int64, error) {
	return f.counts[roleID], nil
}

func newTestUsecase(t *testing.T) (*RoleUsecase, *fakeRoleRepo, *fakeAssignments) {
	t.Helper()

	logger := log.MustNewDevelopmentLogger()
	cacheClient, err := cache.New(&cache.Config{}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cacheClient.Close() })

	repo := newFakeRoleRepo()
	assignments := &fakeAssignments{counts: map[string]int64{}}
	uc := NewRoleUsecase(
		repo,
		repository.NewRoleCache(cacheClient, logger),
		assignments,
		bootstrap.NewRegistry(),
		logger,
	)
	return uc, repo, assignments
}

func TestCreateRole(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	role, err := uc.Create(ctx, "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code: "floor_supervisor",
		Name: "Floor supervisor",
		Grant: domain.ResourceGrant{
			domain.ResourceInventory: domain.NewActionSet(domain.ActionRead, domain.ActionUpdate),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", role.TenantID)
	assert.Equal(t, "actor-1", role.CreatedBy)
	assert.True(t, role.Active)
	assert.False(t, role.IsSystemRole)
}

func TestCreateRoleRejectsSystemFlag(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.Create(context.Background(), "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code:         "impostor",
		Name:         "Impostor",
		IsSystemRole: true,
	})
	assert.ErrorIs(t, err, domain.ErrSystemRoleCreateForbidden)
}

func TestCreateRoleDuplicateCode(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	req := &domain.RoleCreateRequest{Code: "floor_supervisor", Name: "Floor supervisor"}
	_, err := uc.Create(ctx, "tenant-1", "actor-1", req)
	require.NoError(t, err)

	_, err = uc.Create(ctx, "tenant-1", "actor-1", req)
	assert.ErrorIs(t, err, domain.ErrRoleCodeConflict)

	// The same code in another tenant is fine.
	_, err = uc.Create(ctx, "tenant-2", "actor-2", req)
	assert.NoError(t, err)
}

func TestCreateRoleFromTemplate(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	role, err := uc.Create(context.Background(), "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code:         "senior_sales",
		Name:         "Senior sales",
		BaseTemplate: bootstrap.TemplateSalesperson,
		Grant: domain.ResourceGrant{
			// Override replaces the template's invoices entry wholesale.
			domain.ResourceInvoices: domain.NewActionSet(domain.ActionRead),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, bootstrap.TemplateSalesperson, role.BaseTemplate)
	assert.False(t, role.IsSystemRole, "template-derived custom roles stay editable")
	assert.Equal(t, domain.NewActionSet(domain.ActionRead), role.Grant[domain.ResourceInvoices])
	assert.True(t, role.Grant[domain.ResourceQuotes].Has(domain.ActionCreate), "untouched template entries carry over")
	assert.Equal(t, float64(15), role.Special.MaxDiscountPercent, "template specials apply when the request has none")
}

func TestCreateRoleUnknownTemplate(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.Create(context.Background(), "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code:         "mystery",
		Name:         "Mystery",
		BaseTemplate: "astronaut",
	})
	require.Error(t, err)

	var dErr *domain.DetailedError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, domain.ErrTemplateNotFound.IDField, dErr.IDField)
}

func TestUpdateRole(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	role, err := uc.Create(ctx, "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code: "floor_supervisor", Name: "Floor supervisor",
	})
	require.NoError(t, err)

	name := "Shift supervisor"
	updated, err := uc.Update(ctx, "tenant-1", "actor-2", role.ID, &domain.RoleUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "actor-2", updated.ModifiedBy)
	assert.Equal(t, "actor-1", updated.CreatedBy)
}

func TestUpdateRoleCodeIsImmutable(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	role, err := uc.Create(ctx, "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code: "floor_supervisor", Name: "Floor supervisor",
	})
	require.NoError(t, err)

	newCode := "shift_supervisor"
	_, err = uc.Update(ctx, "tenant-1", "actor-1", role.ID, &domain.RoleUpdateRequest{Code: &newCode})
	assert.ErrorIs(t, err, domain.ErrRoleCodeImmutable)

	// Sending the unchanged code back is not an error.
	sameCode := role.Code
	_, err = uc.Update(ctx, "tenant-1", "actor-1", role.ID, &domain.RoleUpdateRequest{Code: &sameCode})
	assert.NoError(t, err)
}

func TestSystemRolesAreFrozen(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	roles, err := uc.ProvisionTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, roles, 6)
	admin := roles[0]

	name := "Root"
	_, err = uc.Update(ctx, "tenant-1", "actor-1", admin.ID, &domain.RoleUpdateRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrRoleImmutable)

	_, err = uc.Deactivate(ctx, "tenant-1", admin.ID)
	assert.ErrorIs(t, err, domain.ErrRoleImmutable)

	err = uc.Delete(ctx, "tenant-1", admin.ID)
	assert.ErrorIs(t, err, domain.ErrRoleImmutable)
}

func TestDeactivateRoleIsIdempotent(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	role, err := uc.Create(ctx, "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code: "floor_supervisor", Name: "Floor supervisor",
	})
	require.NoError(t, err)

	deactivated, err := uc.Deactivate(ctx, "tenant-1", role.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	again, err := uc.Deactivate(ctx, "tenant-1", role.ID)
	require.NoError(t, err)
	assert.False(t, again.Active)
}

func TestDeleteRoleInUse(t *testing.T) {
	uc, repo, assignments := newTestUsecase(t)
	ctx := context.Background()

	role, err := uc.Create(ctx, "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code: "floor_supervisor", Name: "Floor supervisor",
	})
	require.NoError(t, err)

	assignments.counts[role.ID] = 3
	err = uc.Delete(ctx, "tenant-1", role.ID)
	assert.ErrorIs(t, err, domain.ErrRoleInUse)

	assignments.counts[role.ID] = 0
	require.NoError(t, uc.Delete(ctx, "tenant-1", role.ID))
	_, ok := repo.roles[role.ID]
	assert.False(t, ok)
}

func TestDeleteFreesCodeForReuse(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	req := &domain.RoleCreateRequest{Code: "floor_supervisor", Name: "Floor supervisor"}
	role, err := uc.Create(ctx, "tenant-1", "actor-1", req)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "tenant-1", role.ID))

	_, err = uc.Create(ctx, "tenant-1", "actor-1", req)
	assert.NoError(t, err)
}

func TestCrossTenantAccessLooksLikeNotFound(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	role, err := uc.Create(ctx, "tenant-1", "actor-1", &domain.RoleCreateRequest{
		Code: "floor_supervisor", Name: "Floor supervisor",
	})
	require.NoError(t, err)

	_, err = uc.FindByID(ctx, "tenant-2", role.ID)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	name := "Probe"
	_, err = uc.Update(ctx, "tenant-2", "actor-x", role.ID, &domain.RoleUpdateRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	err = uc.Delete(ctx, "tenant-2", role.ID)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestProvisionTenantIsRepeatable(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	ctx := context.Background()

	first, err := uc.ProvisionTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, first, 6)

	second, err := uc.ProvisionTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, second, 6)
	assert.Len(t, repo.roles, 6, "re-provisioning must not duplicate system roles")
}
