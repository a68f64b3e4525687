package domain

import (
	"database/sql/driver"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

/***************************************************
*       Permission model for a single role         *
***************************************************/

// ActionSet is a set of Actions. Order is irrelevant and duplicates are
// impossible; the JSON form is a sorted string array so two equal sets
// serialize identically.
type ActionSet map[Action]struct{}

func NewActionSet(actions ...Action) ActionSet {
	s := make(ActionSet, len(actions))
	for _, a := range actions {
		s[a] = struct{}{}
	}
	return s
}

// AllActionsSet returns a set holding the entire action catalog.
func AllActionsSet() ActionSet {
	return NewActionSet(allActions...)
}

func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// Actions returns the members sorted by name.
func (s ActionSet) Actions() []Action {
	out := make([]Action, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s ActionSet) Clone() ActionSet {
	out := make(ActionSet, len(s))
	for a := range s {
		out[a] = struct{}{}
	}
	return out
}

func (s ActionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Actions())
}

func (s *ActionSet) UnmarshalJSON(b []byte) error {
	var actions []Action
	if err := json.Unmarshal(b, &actions); err != nil {
		return err
	}
	*s = NewActionSet(actions...)
	return nil
}

// ResourceGrant maps a resource to the set of actions a role may perform on
// it. A missing key denies all CRUD on that resource.
type ResourceGrant map[Resource]ActionSet

func (g ResourceGrant) Clone() ResourceGrant {
	out := make(ResourceGrant, len(g))
	for r, s := range g {
		out[r] = s.Clone()
	}
	return out
}

func (g ResourceGrant) Value() (driver.Value, error) {
	val, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(val), nil
}

func (g *ResourceGrant) Scan(input interface{}) error {
	b, ok := input.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, g)
}

// FullResourceGrant grants every action on every resource in the catalog.
// Administrator authority is exactly this data, there is no superuser bypass.
func FullResourceGrant() ResourceGrant {
	g := make(ResourceGrant, len(allResources))
	for _, r := range allResources {
		g[r] = AllActionsSet()
	}
	return g
}

// MergeGrants combines a template grant with a tenant override at role
// creation time. A resource key present in override fully replaces the base
// entry; base-only keys are copied through. There is no per-action merging
// and no live inheritance after creation.
func MergeGrants(base, override ResourceGrant) ResourceGrant {
	merged := base.Clone()
	for r, s := range override {
		merged[r] = s.Clone()
	}
	return merged
}

// SpecialPermissions holds every non-CRUD capability as a fixed field. The
// shape is closed on purpose: a typo in a permission name is a compile error
// here, not a silent runtime no-op.
type SpecialPermissions struct {
	// Financial visibility
	ViewCosts       bool `json:"view_costs"`
	ViewMargins     bool `json:"view_margins"`
	ViewBillingData bool `json:"view_billing_data"`

	// Pricing edits
	ModifySalePrice     bool `json:"modify_sale_price"`
	ModifyPurchasePrice bool `json:"modify_purchase_price"`

	// Discounts: the boolean gate plus the numeric cap in [0,100].
	ApplyDiscounts     bool    `json:"apply_discounts"`
	MaxDiscountPercent float64 `json:"max_discount_percent"`

	// System management
	AccessConfiguration bool `json:"access_configuration"`
	ManageUsers         bool `json:"manage_users"`
	ManageRoles         bool `json:"manage_roles"`

	// Bulk operations
	ExportData bool `json:"export_data"`
	ImportData bool `json:"import_data"`

	// Destructive operations
	VoidDocuments     bool `json:"void_documents"`
	DeleteDocuments   bool `json:"delete_documents"`
	ViewChangeHistory bool `json:"view_change_history"`

	// Per-module access
	AccessSales      bool `json:"access_sales"`
	AccessPurchasing bool `json:"access_purchasing"`
	AccessWarehouse  bool `json:"access_warehouse"`
	AccessAccounting bool `json:"access_accounting"`
	AccessPOS        bool `json:"access_pos"`
}

// Flag resolves a boolean field by its catalog name. The second result is
// false for names outside the catalog so callers can fail closed.
func (s SpecialPermissions) Flag(flag SpecialFlag) (value bool, known bool) {
	switch flag {
	case FlagViewCosts:
		return s.ViewCosts, true
	case FlagViewMargins:
		return s.ViewMargins, true
	case FlagViewBillingData:
		return s.ViewBillingData, true
	case FlagModifySalePrice:
		return s.ModifySalePrice, true
	case FlagModifyPurchasePrice:
		return s.ModifyPurchasePrice, true
	case FlagApplyDiscounts:
		return s.ApplyDiscounts, true
	case FlagAccessConfiguration:
		return s.AccessConfiguration, true
	case FlagManageUsers:
		return s.ManageUsers, true
	case FlagManageRoles:
		return s.ManageRoles, true
	case FlagExportData:
		return s.ExportData, true
	case FlagImportData:
		return s.ImportData, true
	case FlagVoidDocuments:
		return s.VoidDocuments, true
	case FlagDeleteDocuments:
		return s.DeleteDocuments, true
	case FlagViewChangeHistory:
		return s.ViewChangeHistory, true
	case FlagAccessSales:
		return s.AccessSales, true
	case FlagAccessPurchasing:
		return s.AccessPurchasing, true
	case FlagAccessWarehouse:
		return s.AccessWarehouse, true
	case FlagAccessAccounting:
		return s.AccessAccounting, true
	case FlagAccessPOS:
		return s.AccessPOS, true
	default:
		return false, false
	}
}

// AllSpecialPermissions returns the record with every flag on and the
// discount cap at 100. Used only by the administrator template.
func AllSpecialPermissions() SpecialPermissions {
	return SpecialPermissions{
		ViewCosts:           true,
		ViewMargins:         true,
		ViewBillingData:     true,
		ModifySalePrice:     true,
		ModifyPurchasePrice: true,
		ApplyDiscounts:      true,
		MaxDiscountPercent:  100,
		AccessConfiguration: true,
		ManageUsers:         true,
		ManageRoles:         true,
		ExportData:          true,
		ImportData:          true,
		VoidDocuments:       true,
		DeleteDocuments:     true,
		ViewChangeHistory:   true,
		AccessSales:         true,
		AccessPurchasing:    true,
		AccessWarehouse:     true,
		AccessAccounting:    true,
		AccessPOS:           true,
	}
}

func (s SpecialPermissions) Value() (driver.Value, error) {
	val, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(val), nil
}

func (s *SpecialPermissions) Scan(input interface{}) error {
	b, ok := input.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}

// ValidatePermissions checks a grant and special record against the catalog
// and reports the first violation. Out-of-range discount caps are rejected,
// never clamped.
func ValidatePermissions(grant ResourceGrant, special SpecialPermissions) error {
	for resource, actions := range grant {
		if !resource.Valid() {
			return ErrRoleValidationFailed.WithErrorf("unknown resource %q in grant", resource)
		}
		for action := range actions {
			if !action.Valid() {
				return ErrRoleValidationFailed.WithErrorf("unknown action %q for resource %q", action, resource)
			}
		}
	}
	if special.MaxDiscountPercent < 0 || special.MaxDiscountPercent > 100 {
		return ErrRoleValidationFailed.WithErrorf(
			"max_discount_percent must be within [0,100], got %v", special.MaxDiscountPercent)
	}
	return nil
}
