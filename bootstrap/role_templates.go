package bootstrap

import (
	"context"

	"comercia/domain"
	"comercia/pkg/log"

	"github.com/samber/lo"
)

// Template codes. Every tenant is provisioned with one system role per code.
const (
	TemplateAdministrator  = "administrator"
	TemplateManager        = "manager"
	TemplateSalesperson    = "salesperson"
	TemplateTechnician     = "technician"
	TemplateWarehouseClerk = "warehouse_clerk"
	TemplateReadOnly       = "read_only"
)

// RoleTemplate is an immutable default role definition. Templates are
// deployment-time data: changing one never touches roles already
// instantiated from it.
type RoleTemplate struct {
	Code        string                    `json:"code"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Color       string                    `json:"color"`
	Icon        string                    `json:"icon"`
	SortOrder   int                       `json:"sort_order"`
	Grant       domain.ResourceGrant      `json:"grant"`
	Special     domain.SpecialPermissions `json:"special"`
}

func readEverywhereGrant() domain.ResourceGrant {
	g := make(domain.ResourceGrant)
	for _, r := range domain.AllResources() {
		g[r] = domain.NewActionSet(domain.ActionRead)
	}
	return g
}

func managerGrant() domain.ResourceGrant {
	g := make(domain.ResourceGrant)
	for _, r := range domain.AllResources() {
		g[r] = domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionExport)
	}
	// Bulk import is limited to master data.
	for _, r := range []domain.Resource{
		domain.ResourceCustomers,
		domain.ResourceSuppliers,
		domain.ResourceProducts,
		domain.ResourcePriceLists,
		domain.ResourceInventory,
	} {
		g[r] = domain.NewActionSet(
			domain.ActionCreate, domain.ActionRead, domain.ActionUpdate,
			domain.ActionExport, domain.ActionImport,
		)
	}
	// Managers look at roles and configuration but do not change them.
	g[domain.ResourceRoles] = domain.NewActionSet(domain.ActionRead)
	g[domain.ResourceConfiguration] = domain.NewActionSet(domain.ActionRead)
	return g
}

func salespersonGrant() domain.ResourceGrant {
	return domain.ResourceGrant{
		domain.ResourceCustomers:     domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate),
		domain.ResourceProducts:      domain.NewActionSet(domain.ActionRead),
		domain.ResourcePriceLists:    domain.NewActionSet(domain.ActionRead),
		domain.ResourceQuotes:        domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionExport),
		domain.ResourceSalesOrders:   domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionExport),
		domain.ResourceInvoices:      domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionExport),
		domain.ResourceDeliveryNotes: domain.NewActionSet(domain.ActionCreate, domain.ActionRead),
		domain.ResourcePayments:      domain.NewActionSet(domain.ActionCreate, domain.ActionRead),
		domain.ResourcePOSSessions:   domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate),
		domain.ResourceReports:       domain.NewActionSet(domain.ActionRead),
	}
}

func technicianGrant() domain.ResourceGrant {
	return domain.ResourceGrant{
		domain.ResourceWorkOrders: domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete),
		domain.ResourceCustomers:  domain.NewActionSet(domain.ActionRead),
		domain.ResourceProducts:   domain.NewActionSet(domain.ActionRead),
		domain.ResourceInventory:  domain.NewActionSet(domain.ActionRead),
		domain.ResourceShifts:     domain.NewActionSet(domain.ActionRead),
	}
}

func warehouseClerkGrant() domain.ResourceGrant {
	return domain.ResourceGrant{
		domain.ResourceWarehouses:     domain.NewActionSet(domain.ActionRead),
		domain.ResourceInventory:      domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionImport),
		domain.ResourceStockMovements: domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionExport),
		domain.ResourceProducts:       domain.NewActionSet(domain.ActionRead),
		domain.ResourceSuppliers:      domain.NewActionSet(domain.ActionRead),
		domain.ResourcePurchaseOrders: domain.NewActionSet(domain.ActionRead, domain.ActionUpdate),
		domain.ResourceDeliveryNotes:  domain.NewActionSet(domain.ActionRead, domain.ActionUpdate),
	}
}

func defaultTemplates() []RoleTemplate {
	return []RoleTemplate{
		{
			Code:        TemplateAdministrator,
			Name:        "Administrator",
			Description: "Full access to every module and operation",
			Color:       "#d32f2f",
			Icon:        "shield",
			SortOrder:   1,
			Grant:       domain.FullResourceGrant(),
			Special:     domain.AllSpecialPermissions(),
		},
		{
			Code:        TemplateManager,
			Name:        "Manager",
			Description: "Broad day-to-day management without destructive operations",
			Color:       "#1976d2",
			Icon:        "briefcase",
			SortOrder:   2,
			Grant:       managerGrant(),
			Special: domain.SpecialPermissions{
				ViewCosts:           true,
				ViewMargins:         true,
				ViewBillingData:     true,
				ModifySalePrice:     true,
				ModifyPurchasePrice: true,
				ApplyDiscounts:      true,
				MaxDiscountPercent:  50,
				ManageUsers:         true,
				ExportData:          true,
				ImportData:          true,
				ViewChangeHistory:   true,
				AccessSales:         true,
				AccessPurchasing:    true,
				AccessWarehouse:     true,
				AccessAccounting:    true,
				AccessPOS:           true,
			},
		},
		{
			Code:        TemplateSalesperson,
			Name:        "Salesperson",
			Description: "Sales documents and customer management, no cost visibility",
			Color:       "#388e3c",
			Icon:        "cart",
			SortOrder:   3,
			Grant:       salespersonGrant(),
			Special: domain.SpecialPermissions{
				ApplyDiscounts:     true,
				MaxDiscountPercent: 15,
				ExportData:         true,
				AccessSales:        true,
				AccessPOS:          true,
			},
		},
		{
			Code:        TemplateTechnician,
			Name:        "Technician",
			Description: "Work-order management with read access to related data",
			Color:       "#f57c00",
			Icon:        "wrench",
			SortOrder:   4,
			Grant:       technicianGrant(),
			Special:     domain.SpecialPermissions{},
		},
		{
			Code:        TemplateWarehouseClerk,
			Name:        "Warehouse clerk",
			Description: "Stock and logistics operations with cost visibility",
			Color:       "#7b1fa2",
			Icon:        "package",
			SortOrder:   5,
			Grant:       warehouseClerkGrant(),
			Special: domain.SpecialPermissions{
				ViewCosts:        true,
				ImportData:       true,
				ExportData:       true,
				AccessPurchasing: true,
				AccessWarehouse:  true,
			},
		},
		{
			Code:        TemplateReadOnly,
			Name:        "Read only",
			Description: "Read access everywhere, no mutations",
			Color:       "#616161",
			Icon:        "eye",
			SortOrder:   6,
			Grant:       readEverywhereGrant(),
			Special: domain.SpecialPermissions{
				ViewBillingData: true,
			},
		},
	}
}

// Registry exposes the compiled-in role templates. It hands out deep copies
// only, so callers can never mutate the defaults at runtime.
type Registry struct {
	templates []RoleTemplate
	index     map[string]int
}

func NewRegistry() *Registry {
	templates := defaultTemplates()
	index := make(map[string]int, len(templates))
	for i, t := range templates {
		index[t.Code] = i
	}
	return &Registry{templates: templates, index: index}
}

func (r *Registry) cloneAt(i int) RoleTemplate {
	t := r.templates[i]
	t.Grant = t.Grant.Clone()
	return t
}

// List returns every template in sort order.
func (r *Registry) List() []RoleTemplate {
	return lo.Map(r.templates, func(_ RoleTemplate, i int) RoleTemplate {
		return r.cloneAt(i)
	})
}

func (r *Registry) ByCode(code string) (*RoleTemplate, error) {
	i, ok := r.index[code]
	if !ok {
		return nil, domain.ErrTemplateNotFound.WithErrorf("unknown role template %q", code)
	}
	t := r.cloneAt(i)
	return &t, nil
}

// Instantiate deep-copies a template into a fully-owned system role for the
// tenant. The returned role only records its origin in BaseTemplate; later
// template changes never propagate to it.
func (r *Registry) Instantiate(code, tenantID string) (*domain.Role, error) {
	t, err := r.ByCode(code)
	if err != nil {
		return nil, err
	}
	role := &domain.Role{
		TenantID:     tenantID,
		Code:         t.Code,
		Name:         t.Name,
		Description:  t.Description,
		BaseTemplate: t.Code,
		Grant:        t.Grant.Clone(),
		Special:      t.Special,
		Color:        t.Color,
		Icon:         t.Icon,
		SortOrder:    t.SortOrder,
		Active:       true,
		IsSystemRole: true,
	}
	return role, nil
}

// RoleUpserter is the slice of the role repository provisioning needs.
type RoleUpserter interface {
	UpsertSystemRole(ctx context.Context, role *domain.Role) (*domain.Role, error)
}

// TenantProvisioner seeds a tenant with one system role per template. The
// write is an upsert keyed on (tenant_id, code), so re-running provisioning
// for an already-provisioned tenant updates the system roles in place
// instead of duplicating them.
type TenantProvisioner struct {
	registry *Registry
	repo     RoleUpserter
	logger   log.Logger
}

func NewTenantProvisioner(registry *Registry, repo RoleUpserter, logger log.Logger) *TenantProvisioner {
	return &TenantProvisioner{registry: registry, repo: repo, logger: logger}
}

func (p *TenantProvisioner) Provision(ctx context.Context, tenantID string) ([]*domain.Role, error) {
	if tenantID == "" {
		return nil, domain.ErrRoleValidationFailed.WithError("tenant_id must be not empty")
	}

	p.logger.Info("Provisioning tenant roles", log.TenantID(tenantID))

	roles := make([]*domain.Role, 0, len(p.registry.templates))
	for _, tmpl := range p.registry.List() {
		role, err := p.registry.Instantiate(tmpl.Code, tenantID)
		if err != nil {
			return nil, err
		}

		persisted, err := p.repo.UpsertSystemRole(ctx, role)
		if err != nil {
			p.logger.Error("Failed to upsert system role",
				log.TenantID(tenantID),
				log.String("code", role.Code),
				log.Error(err),
			)
			return nil, err
		}

		roles = append(roles, persisted)
	}

	p.logger.Info("Tenant roles provisioned",
		log.TenantID(tenantID),
		log.Int("count", len(roles)),
	)
	return roles, nil
}
