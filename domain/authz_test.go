package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesRole() *Role {
	return &Role{
		TenantID: "tenant-1",
		Code:     "salesperson",
		Name:     "Salesperson",
		Active:   true,
		Grant: ResourceGrant{
			ResourceCustomers: NewActionSet(ActionCreate, ActionRead, ActionUpdate),
			ResourceInvoices:  NewActionSet(ActionCreate, ActionRead),
			ResourceProducts:  NewActionSet(ActionRead),
		},
		Special: SpecialPermissions{
			ApplyDiscounts:     true,
			MaxDiscountPercent: 15,
			AccessSales:        true,
		},
	}
}

func TestAuthorizeAction(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Role)
		resource Resource
		action   Action
		allowed  bool
		reason   DenyReason
	}{
		{
			name:     "granted action is allowed",
			resource: ResourceInvoices,
			action:   ActionCreate,
			allowed:  true,
		},
		{
			name:     "action outside the set is denied",
			resource: ResourceInvoices,
			action:   ActionDelete,
			reason:   DenyActionNotGranted,
		},
		{
			name:     "resource missing from grant is denied",
			resource: ResourcePayments,
			action:   ActionRead,
			reason:   DenyResourceNotGranted,
		},
		{
			name:     "unknown resource is a caller bug",
			resource: Resource("starships"),
			action:   ActionRead,
			reason:   DenyUnknownResource,
		},
		{
			name:     "inactive role denies everything",
			mutate:   func(r *Role) { r.Active = false },
			resource: ResourceInvoices,
			action:   ActionCreate,
			reason:   DenyRoleInactive,
		},
		{
			name:     "inactive role wins over unknown resource",
			mutate:   func(r *Role) { r.Active = false },
			resource: Resource("starships"),
			action:   ActionRead,
			reason:   DenyRoleInactive,
		},
		{
			name:     "empty grant denies even read",
			mutate:   func(r *Role) { r.Grant = ResourceGrant{} },
			resource: ResourceCustomers,
			action:   ActionRead,
			reason:   DenyResourceNotGranted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := salesRole()
			if tt.mutate != nil {
				tt.mutate(role)
			}

			decision := role.AuthorizeAction(tt.resource, tt.action)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestAuthorizeSpecial(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Role)
		flag    SpecialFlag
		allowed bool
		reason  DenyReason
	}{
		{
			name:    "enabled flag is allowed",
			flag:    FlagAccessSales,
			allowed: true,
		},
		{
			name:   "disabled flag is denied",
			flag:   FlagViewCosts,
			reason: DenySpecialFlagDenied,
		},
		{
			name:   "unknown flag is a caller bug",
			flag:   SpecialFlag("launch_rockets"),
			reason: DenyUnknownSpecialFlag,
		},
		{
			name:   "inactive role denies enabled flag",
			mutate: func(r *Role) { r.Active = false },
			flag:   FlagAccessSales,
			reason: DenyRoleInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := salesRole()
			if tt.mutate != nil {
				tt.mutate(role)
			}

			decision := role.AuthorizeSpecial(tt.flag)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestAuthorizeDiscount(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Role)
		percent float64
		allowed bool
		reason  DenyReason
	}{
		{
			name:    "zero percent is allowed",
			percent: 0,
			allowed: true,
		},
		{
			name:    "below the cap is allowed",
			percent: 10,
			allowed: true,
		},
		{
			name:    "cap itself is allowed",
			percent: 15,
			allowed: true,
		},
		{
			name:    "just above the cap is denied, not clamped",
			percent: 15.01,
			reason:  DenyDiscountBoundExceeded,
		},
		{
			name:    "gate off denies even zero percent",
			mutate:  func(r *Role) { r.Special.ApplyDiscounts = false },
			percent: 0,
			reason:  DenySpecialFlagDenied,
		},
		{
			name:    "inactive role denies discounts",
			mutate:  func(r *Role) { r.Active = false },
			percent: 5,
			reason:  DenyRoleInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := salesRole()
			if tt.mutate != nil {
				tt.mutate(role)
			}

			decision := role.AuthorizeDiscount(tt.percent)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestDecisionCallerBug(t *testing.T) {
	role := salesRole()

	assert.True(t, role.AuthorizeAction("starships", ActionRead).CallerBug())
	assert.True(t, role.AuthorizeSpecial("launch_rockets").CallerBug())
	assert.False(t, role.AuthorizeAction(ResourcePayments, ActionRead).CallerBug())
	assert.False(t, role.AuthorizeSpecial(FlagViewCosts).CallerBug())
}

func TestDecisionErr(t *testing.T) {
	role := salesRole()

	require.NoError(t, role.AuthorizeAction(ResourceInvoices, ActionRead).Err())

	err := role.AuthorizeAction(ResourceInvoices, ActionDelete).Err()
	require.Error(t, err)

	var dErr *DetailedError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, ErrPermissionDenied.IDField, dErr.IDField)
	assert.Equal(t, string(DenyActionNotGranted), dErr.Reason())
}

func TestAdministratorAuthorityIsPureData(t *testing.T) {
	admin := &Role{
		TenantID: "tenant-1",
		Code:     "administrator",
		Name:     "Administrator",
		Active:   true,
		Grant:    FullResourceGrant(),
		Special:  AllSpecialPermissions(),
	}

	for _, r := range AllResources() {
		for _, a := range AllActions() {
			assert.True(t, admin.AuthorizeAction(r, a).Allowed)
		}
	}
	assert.True(t, admin.AuthorizeDiscount(100).Allowed)

	// Stripping the grant strips the authority; there is no bypass.
	admin.Grant = ResourceGrant{}
	assert.Equal(t, DenyResourceNotGranted, admin.AuthorizeAction(ResourceInvoices, ActionRead).Reason)
}
