package usecase

import (
	"context"
	"errors"

	"comercia/domain"
)

type Hasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) bool
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, userID string, option *domain.FindOneOption) (*domain.User, error)
	FindOne(ctx context.Context, filter *domain.UserFilter, option *domain.FindOneOption) (*domain.User, error)
	FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateFields(ctx context.Context, userID string, fields map[string]any) error
	CountByRole(ctx context.Context, roleID string) (int64, error)
	Count(ctx context.Context, filter *domain.UserFilter) (int64, error)
}

// RoleFinder is the slice of the role module this usecase needs for
// assignment checks.
type RoleFinder interface {
	FindByID(ctx context.Context, tenantID, roleID string) (*domain.Role, error)
}

type userUsecase struct {
	repo   UserRepository
	roles  RoleFinder
	hasher Hasher
}

func NewUserUsecase(repo UserRepository, roles RoleFinder, hasher Hasher) domain.UserUsecase {
	return &userUsecase{repo: repo, roles: roles, hasher: hasher}
}

func (u *userUsecase) Create(ctx context.Context, tenantID string, req *domain.UserCreateRequest) (*domain.User, error) {
	user := &domain.User{
		TenantID:  tenantID,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    domain.UserSTTActive,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	// A role assigned at creation must exist in the tenant and be active.
	if req.RoleID != "" {
		role, err := u.roles.FindByID(ctx, tenantID, req.RoleID)
		if err != nil {
			return nil, err
		}
		if !role.Active {
			return nil, domain.ErrRoleInactive
		}
		user.RoleID = role.ID
	}

	hashedPassword, err := u.hasher.Hash(user.Password)
	if err != nil {
		return nil, domain.ErrPasswordHashFailed.WithWrap(err)
	}
	user.Password = hashedPassword

	if err := u.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUsecase) FindByID(ctx context.Context, tenantID, userID string) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, userID, nil)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.TenantID != tenantID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// AssignRole points the user at a different role. Deactivated roles do not
// accept new assignments even though existing holders keep theirs.
func (u *userUsecase) AssignRole(ctx context.Context, tenantID, userID, roleID string) error {
	user, err := u.FindByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	role, err := u.roles.FindByID(ctx, tenantID, roleID)
	if err != nil {
		return err
	}
	if !role.Active {
		return domain.ErrRoleInactive
	}

	return u.repo.UpdateFields(ctx, user.ID, map[string]any{
		"role_id": role.ID,
	})
}

func (u *userUsecase) CountByRole(ctx context.Context, roleID string) (int64, error) {
	return u.repo.CountByRole(ctx, roleID)
}

func (u *userUsecase) FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}
