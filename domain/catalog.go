package domain

import "github.com/samber/lo"

/***************************************************
*       Access-control catalog (closed sets)       *
***************************************************/

// Resource identifies an object type subject to access control. The set is
// closed and compiled in: grants referencing anything else fail validation.
type Resource string

const (
	ResourceCustomers        Resource = "customers"
	ResourceSuppliers        Resource = "suppliers"
	ResourceProducts         Resource = "products"
	ResourceWarehouses       Resource = "warehouses"
	ResourceInventory        Resource = "inventory"
	ResourceStockMovements   Resource = "stock_movements"
	ResourcePriceLists       Resource = "price_lists"
	ResourceQuotes           Resource = "quotes"
	ResourceSalesOrders      Resource = "sales_orders"
	ResourceInvoices         Resource = "invoices"
	ResourceDeliveryNotes    Resource = "delivery_notes"
	ResourcePurchaseOrders   Resource = "purchase_orders"
	ResourcePurchaseInvoices Resource = "purchase_invoices"
	ResourcePayments         Resource = "payments"
	ResourceExpenses         Resource = "expenses"
	ResourceJournalEntries   Resource = "journal_entries"
	ResourceWorkOrders       Resource = "work_orders"
	ResourcePOSSessions      Resource = "pos_sessions"
	ResourceEmployees        Resource = "employees"
	ResourceShifts           Resource = "shifts"
	ResourceUsers            Resource = "users"
	ResourceRoles            Resource = "roles"
	ResourceConfiguration    Resource = "configuration"
	ResourceReports          Resource = "reports"
)

// Action is one of the six operations a grant can permit on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionImport Action = "import"
)

var allResources = []Resource{
	ResourceCustomers,
	ResourceSuppliers,
	ResourceProducts,
	ResourceWarehouses,
	ResourceInventory,
	ResourceStockMovements,
	ResourcePriceLists,
	ResourceQuotes,
	ResourceSalesOrders,
	ResourceInvoices,
	ResourceDeliveryNotes,
	ResourcePurchaseOrders,
	ResourcePurchaseInvoices,
	ResourcePayments,
	ResourceExpenses,
	ResourceJournalEntries,
	ResourceWorkOrders,
	ResourcePOSSessions,
	ResourceEmployees,
	ResourceShifts,
	ResourceUsers,
	ResourceRoles,
	ResourceConfiguration,
	ResourceReports,
}

var allActions = []Action{
	ActionCreate,
	ActionRead,
	ActionUpdate,
	ActionDelete,
	ActionExport,
	ActionImport,
}

var resourceIndex = lo.SliceToMap(allResources, func(r Resource) (Resource, struct{}) {
	return r, struct{}{}
})

var actionIndex = lo.SliceToMap(allActions, func(a Action) (Action, struct{}) {
	return a, struct{}{}
})

// AllResources returns the full resource catalog in declaration order.
func AllResources() []Resource {
	out := make([]Resource, len(allResources))
	copy(out, allResources)
	return out
}

// AllActions returns the full action catalog in declaration order.
func AllActions() []Action {
	out := make([]Action, len(allActions))
	copy(out, allActions)
	return out
}

func (r Resource) Valid() bool {
	_, ok := resourceIndex[r]
	return ok
}

func (a Action) Valid() bool {
	_, ok := actionIndex[a]
	return ok
}

// SpecialFlag names a boolean field of SpecialPermissions. Callers pass these
// to the evaluator instead of free-form strings; anything outside the list is
// denied with DenyUnknownSpecialFlag.
type SpecialFlag string

const (
	FlagViewCosts           SpecialFlag = "view_costs"
	FlagViewMargins         SpecialFlag = "view_margins"
	FlagViewBillingData     SpecialFlag = "view_billing_data"
	FlagModifySalePrice     SpecialFlag = "modify_sale_price"
	FlagModifyPurchasePrice SpecialFlag = "modify_purchase_price"
	FlagApplyDiscounts      SpecialFlag = "apply_discounts"
	FlagAccessConfiguration SpecialFlag = "access_configuration"
	FlagManageUsers         SpecialFlag = "manage_users"
	FlagManageRoles         SpecialFlag = "manage_roles"
	FlagExportData          SpecialFlag = "export_data"
	FlagImportData          SpecialFlag = "import_data"
	FlagVoidDocuments       SpecialFlag = "void_documents"
	FlagDeleteDocuments     SpecialFlag = "delete_documents"
	FlagViewChangeHistory   SpecialFlag = "view_change_history"
	FlagAccessSales         SpecialFlag = "access_sales"
	FlagAccessPurchasing    SpecialFlag = "access_purchasing"
	FlagAccessWarehouse     SpecialFlag = "access_warehouse"
	FlagAccessAccounting    SpecialFlag = "access_accounting"
	FlagAccessPOS           SpecialFlag = "access_pos"
)

var allSpecialFlags = []SpecialFlag{
	FlagViewCosts,
	FlagViewMargins,
	FlagViewBillingData,
	FlagModifySalePrice,
	FlagModifyPurchasePrice,
	FlagApplyDiscounts,
	FlagAccessConfiguration,
	FlagManageUsers,
	FlagManageRoles,
	FlagExportData,
	FlagImportData,
	FlagVoidDocuments,
	FlagDeleteDocuments,
	FlagViewChangeHistory,
	FlagAccessSales,
	FlagAccessPurchasing,
	FlagAccessWarehouse,
	FlagAccessAccounting,
	FlagAccessPOS,
}

var specialFlagIndex = lo.SliceToMap(allSpecialFlags, func(f SpecialFlag) (SpecialFlag, struct{}) {
	return f, struct{}{}
})

// AllSpecialFlags returns every boolean special-permission name.
func AllSpecialFlags() []SpecialFlag {
	out := make([]SpecialFlag, len(allSpecialFlags))
	copy(out, allSpecialFlags)
	return out
}

func (f SpecialFlag) Valid() bool {
	_, ok := specialFlagIndex[f]
	return ok
}
