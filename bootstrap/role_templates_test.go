package bootstrap

import (
	"context"
	"testing"

	"comercia/domain"
	"comercia/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryList(t *testing.T) {
	registry := NewRegistry()
	templates := registry.List()

	require.Len(t, templates, 6)

	codes := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		codes = append(codes, tmpl.Code)
	}
	assert.Equal(t, []string{
		TemplateAdministrator,
		TemplateManager,
		TemplateSalesperson,
		TemplateTechnician,
		TemplateWarehouseClerk,
		TemplateReadOnly,
	}, codes)

	// Every template must pass the same validation roles do.
	for _, tmpl := range templates {
		assert.NoError(t, domain.ValidatePermissions(tmpl.Grant, tmpl.Special), "template %q", tmpl.Code)
	}
}

func TestRegistryByCode(t *testing.T) {
	registry := NewRegistry()

	tmpl, err := registry.ByCode(TemplateSalesperson)
	require.NoError(t, err)
	assert.Equal(t, "Salesperson", tmpl.Name)
	assert.True(t, tmpl.Special.ApplyDiscounts)
	assert.Equal(t, float64(15), tmpl.Special.MaxDiscountPercent)

	_, err = registry.ByCode("astronaut")
	require.Error(t, err)
	var dErr *domain.DetailedError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, domain.ErrTemplateNotFound.IDField, dErr.IDField)
}

func TestRegistryHandsOutCopies(t *testing.T) {
	registry := NewRegistry()

	first, err := registry.ByCode(TemplateReadOnly)
	require.NoError(t, err)
	first.Grant[domain.ResourceInvoices] = domain.NewActionSet(domain.ActionDelete)
	first.Special.ManageRoles = true

	second, err := registry.ByCode(TemplateReadOnly)
	require.NoError(t, err)
	assert.False(t, second.Grant[domain.ResourceInvoices].Has(domain.ActionDelete))
	assert.False(t, second.Special.ManageRoles)
}

func TestAdministratorTemplateIsComplete(t *testing.T) {
	registry := NewRegistry()

	tmpl, err := registry.ByCode(TemplateAdministrator)
	require.NoError(t, err)

	assert.Equal(t, domain.FullResourceGrant(), tmpl.Grant)
	assert.Equal(t, domain.AllSpecialPermissions(), tmpl.Special)
	assert.Equal(t, float64(100), tmpl.Special.MaxDiscountPercent)
}

func TestInstantiate(t *testing.T) {
	registry := NewRegistry()

	role, err := registry.Instantiate(TemplateTechnician, "tenant-1")
	require.NoError(t, err)

	assert.Equal(t, "tenant-1", role.TenantID)
	assert.Equal(t, TemplateTechnician, role.Code)
	assert.Equal(t, TemplateTechnician, role.BaseTemplate)
	assert.True(t, role.IsSystemRole)
	assert.True(t, role.Active)
	require.NoError(t, role.Validate())

	// The instantiated role owns its grant outright.
	role.Grant[domain.ResourceWorkOrders] = domain.NewActionSet(domain.ActionRead)
	fresh, err := registry.Instantiate(TemplateTechnician, "tenant-2")
	require.NoError(t, err)
	assert.True(t, fresh.Grant[domain.ResourceWorkOrders].Has(domain.ActionDelete))

	_, err = registry.Instantiate("astronaut", "tenant-1")
	assert.Error(t, err)
}

type fakeRoleUpserter struct {
	upserted []*domain.Role
	failOn   string
}

func (f *fakeRoleUpserter) UpsertSystemRole(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if f.failOn == role.Code {
		return nil, domain.ErrInternalServerError
	}
	f.upserted = append(f.upserted, role)
	return role, nil
}

func TestProvision(t *testing.T) {
	repo := &fakeRoleUpserter{}
	provisioner := NewTenantProvisioner(NewRegistry(), repo, log.MustNewDevelopmentLogger())

	roles, err := provisioner.Provision(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Len(t, roles, 6)
	for _, role := range roles {
		assert.Equal(t, "tenant-1", role.TenantID)
		assert.True(t, role.IsSystemRole)
	}
}

func TestProvisionRequiresTenant(t *testing.T) {
	provisioner := NewTenantProvisioner(NewRegistry(), &fakeRoleUpserter{}, log.MustNewDevelopmentLogger())

	_, err := provisioner.Provision(context.Background(), "")
	assert.Error(t, err)
}

func TestProvisionStopsOnRepositoryFailure(t *testing.T) {
	repo := &fakeRoleUpserter{failOn: TemplateSalesperson}
	provisioner := NewTenantProvisioner(NewRegistry(), repo, log.MustNewDevelopmentLogger())

	_, err := provisioner.Provision(context.Background(), "tenant-1")
	require.Error(t, err)
	// Administrator and manager land before the failure aborts the run.
	assert.Len(t, repo.upserted, 2)
}
