package domain

import (
	"context"
	"net/http"
)

/****************************
*        User errors        *
****************************/
var (
	ErrUserNotFound = &DetailedError{
		IDField:         "USER_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "User not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrEmailAlreadyExists = &DetailedError{
		IDField:         "EMAIL_ALREADY_EXISTS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "User with this email already exists in the tenant",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrUserValidationFailed = &DetailedError{
		IDField:         "USER_VALIDATION_FAILED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "User validation failed",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrPasswordHashFailed = &DetailedError{
		IDField:         "PASSWORD_HASH_FAILED",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to hash password",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrInvalidUserStatus = &DetailedError{
		IDField:         "INVALID_USER_STATUS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Invalid user status",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrUserInactive = &DetailedError{
		IDField:         "USER_INACTIVE",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "User account is inactive",
		StatusCodeField: http.StatusForbidden,
	}
)

/***************************************
*       User entities and types        *
***************************************/
type UserStatus string

const (
	UserSTTActive   UserStatus = "active"
	UserSTTInactive UserStatus = "inactive"
)

// User is the role-assignment collaborator of the authorization core: each
// user belongs to one tenant and holds exactly one role. The role-deletion
// in-use check counts rows of this table.
type User struct {
	SQLModel
	TenantID  string     `json:"tenant_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_users_tenant_email"`
	Email     string     `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_users_tenant_email"`
	Password  string     `json:"-" gorm:"type:varchar(60);not null"`
	FirstName string     `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName  string     `json:"last_name" gorm:"type:varchar(50);not null"`
	Status    UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	RoleID    string     `json:"role_id" gorm:"type:varchar(36);index"`
}

func (u *User) Validate() error {
	if u.TenantID == "" {
		return ErrUserValidationFailed.WithError("tenant_id must be not empty")
	}
	if u.Email == "" {
		return ErrUserValidationFailed.WithError("email must be not empty")
	}
	if u.FirstName == "" {
		return ErrUserValidationFailed.WithError("first_name must be not empty")
	}
	switch u.Status {
	case UserSTTActive, UserSTTInactive:
		// valid
	default:
		return ErrInvalidUserStatus
	}
	return nil
}

func (u *User) IsActive() bool {
	return u.Status == UserSTTActive
}

type UserFilter struct {
	ID             *string  `json:"id" form:"id"`
	IDIn           []string `json:"id_in" form:"id_in"`
	TenantID       *string  `json:"tenant_id" form:"tenant_id"`
	Email          *string  `json:"email" form:"email"`
	RoleID         *string  `json:"role_id" form:"role_id"`
	Active         *bool    `json:"active" form:"active"`
	SearchTerm     *string  `json:"search_term" form:"search_term"`
	SearchFields   []string `json:"search_fields" form:"search_fields"`
	IncludeDeleted *bool    `json:"include_deleted" form:"include_deleted"`
}

/**********************************************
*      User usecase interfaces and types      *
**********************************************/
type UserUsecase interface {
	Create(ctx context.Context, tenantID string, req *UserCreateRequest) (*User, error)
	FindByID(ctx context.Context, tenantID, userID string) (*User, error)
	AssignRole(ctx context.Context, tenantID, userID, roleID string) error
	CountByRole(ctx context.Context, roleID string) (int64, error)
	FindPage(ctx context.Context, filter *UserFilter, option *FindPageOption) ([]*User, *Pagination, error)
}

type UserCreateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	RoleID    string `json:"role_id"`
}

type UserAssignRoleRequest struct {
	RoleID string `json:"role_id" binding:"required"`
}
