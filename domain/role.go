package domain

import (
	"context"
	"net/http"
	"regexp"
)

/****************************
*        Role errors        *
****************************/
var (
	ErrRoleNotFound = &DetailedError{
		IDField:         "ROLE_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Role not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrRoleCodeConflict = &DetailedError{
		IDField:         "ROLE_CODE_CONFLICT",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "A role with this code already exists for the tenant",
		StatusCodeField: http.StatusConflict,
	}
	ErrRoleImmutable = &DetailedError{
		IDField:         "ROLE_IMMUTABLE",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "System roles cannot be modified or deleted",
		StatusCodeField: http.StatusConflict,
	}
	ErrRoleInUse = &DetailedError{
		IDField:         "ROLE_IN_USE",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Role is still assigned to users and cannot be deleted",
		StatusCodeField: http.StatusConflict,
	}
	ErrRoleValidationFailed = &DetailedError{
		IDField:         "ROLE_VALIDATION_FAILED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Role validation failed",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrRoleCodeImmutable = &DetailedError{
		IDField:         "ROLE_CODE_IMMUTABLE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Role code cannot be changed after creation",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrSystemRoleCreateForbidden = &DetailedError{
		IDField:         "SYSTEM_ROLE_CREATE_FORBIDDEN",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "System roles are created only by tenant provisioning",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrRoleInactive = &DetailedError{
		IDField:         "ROLE_INACTIVE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Role is deactivated and cannot receive new assignments",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrTemplateNotFound = &DetailedError{
		IDField:         "TEMPLATE_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Unknown role template",
		StatusCodeField: http.StatusNotFound,
	}
	ErrPermissionDenied = &DetailedError{
		IDField:         "PERMISSION_DENIED",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "Insufficient permissions for this operation",
		StatusCodeField: http.StatusForbidden,
	}
)

/***************************************
*       Role entity and types          *
***************************************/

// roleCodePattern keeps codes url- and log-safe: lowercase slug, 2-50 chars.
var roleCodePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,49}$`)

// Role is the unit of authorization: a tenant-scoped bundle of resource
// grants and special permissions. Roles instantiated from a template during
// provisioning carry IsSystemRole=true and are frozen; BaseTemplate is an
// informational tag only and never creates a live inheritance link.
type Role struct {
	SQLModel
	TenantID     string             `json:"tenant_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_roles_tenant_code"`
	Code         string             `json:"code" gorm:"type:varchar(50);not null;uniqueIndex:idx_roles_tenant_code"`
	Name         string             `json:"name" gorm:"type:varchar(100);not null"`
	Description  string             `json:"description" gorm:"type:varchar(255)"`
	BaseTemplate string             `json:"base_template" gorm:"type:varchar(50)"`
	Grant        ResourceGrant      `json:"grant" gorm:"column:grants;type:jsonb"`
	Special      SpecialPermissions `json:"special" gorm:"type:jsonb"`
	Color        string             `json:"color" gorm:"type:varchar(20)"`
	Icon         string             `json:"icon" gorm:"type:varchar(50)"`
	SortOrder    int                `json:"sort_order" gorm:"default:0"`
	Active       bool               `json:"active" gorm:"default:true"`
	IsSystemRole bool               `json:"is_system_role" gorm:"default:false"`
	CreatedBy    string             `json:"created_by" gorm:"type:varchar(36)"`
	ModifiedBy   string             `json:"modified_by" gorm:"type:varchar(36)"`
}

func (r *Role) Validate() error {
	if r.TenantID == "" {
		return ErrRoleValidationFailed.WithError("tenant_id must be not empty")
	}
	if !roleCodePattern.MatchString(r.Code) {
		return ErrRoleValidationFailed.WithErrorf("code %q must be a lowercase slug of 2-50 chars", r.Code)
	}
	if r.Name == "" {
		return ErrRoleValidationFailed.WithError("name must be not empty")
	}
	return ValidatePermissions(r.Grant, r.Special)
}

type RoleFilter struct {
	ID             *string  `json:"id" form:"id"`
	IDIn           []string `json:"id_in" form:"id_in"`
	TenantID       *string  `json:"tenant_id" form:"tenant_id"`
	Code           *string  `json:"code" form:"code"`
	Active         *bool    `json:"active" form:"active"`
	IsSystemRole   *bool    `json:"is_system_role" form:"is_system_role"`
	BaseTemplate   *string  `json:"base_template" form:"base_template"`
	SearchTerm     *string  `json:"search_term" form:"search_term"`
	IncludeDeleted *bool    `json:"include_deleted" form:"include_deleted"`
}

/**********************************************
*      Role usecase interfaces and types      *
**********************************************/
type RoleUsecase interface {
	Create(ctx context.Context, tenantID, actorID string, req *RoleCreateRequest) (*Role, error)
	Update(ctx context.Context, tenantID, actorID, roleID string, req *RoleUpdateRequest) (*Role, error)
	Deactivate(ctx context.Context, tenantID, roleID string) (*Role, error)
	Delete(ctx context.Context, tenantID, roleID string) error
	FindByID(ctx context.Context, tenantID, roleID string) (*Role, error)
	FindByTenantAndCode(ctx context.Context, tenantID, code string) (*Role, error)
	FindPage(ctx context.Context, filter *RoleFilter, option *FindPageOption) ([]*Role, *Pagination, error)
	ProvisionTenant(ctx context.Context, tenantID string) ([]*Role, error)
}

type RoleCreateRequest struct {
	Code         string              `json:"code" binding:"required,role_code"`
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description"`
	BaseTemplate string              `json:"base_template"`
	Grant        ResourceGrant       `json:"grant"`
	Special      *SpecialPermissions `json:"special"`
	Color        string              `json:"color"`
	Icon         string              `json:"icon"`
	SortOrder    int                 `json:"sort_order"`
	IsSystemRole bool                `json:"is_system_role"`
}

type RoleUpdateRequest struct {
	Code        *string             `json:"code,omitempty"`
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Grant       *ResourceGrant      `json:"grant,omitempty"`
	Special     *SpecialPermissions `json:"special,omitempty"`
	Color       *string             `json:"color,omitempty"`
	Icon        *string             `json:"icon,omitempty"`
	SortOrder   *int                `json:"sort_order,omitempty"`
}
