package usecase

import (
	"context"
	"fmt"
	"testing"

	"comercia/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.TenantID == user.TenantID && existing.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, userID string, _ *domain.FindOneOption) (*domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, filter *domain.UserFilter, _ *domain.FindOneOption) (*domain.User, error) {
	for _, user := range r.users {
		if filter.Email != nil && user.Email == *filter.Email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakeUserRepo) FindPage(_ context.Context, filter *domain.UserFilter, _ *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	var out []*domain.User
	for _, user := range r.users {
		if filter != nil && filter.TenantID != nil && user.TenantID != *filter.TenantID {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	return out, &domain.Pagination{TotalItems: int64(len(out))}, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateFields(_ context.Context, userID string, fields map[string]any) error {
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if roleID, ok := fields["role_id"].(string); ok {
		user.RoleID = roleID
	}
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, roleID string) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.RoleID == roleID {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ *domain.UserFilter) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeRoleFinder struct {
	roles map[string]*domain.Role
}

func (f *fakeRoleFinder) FindByID(_ context.Context, tenantID, roleID string) (*domain.Role, error) {
	role, ok := f.roles[roleID]
	if !ok || role.TenantID != tenantID {
		return nil, domain.ErrRoleNotFound
	}
	return role, nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Compare(hashed, password string) bool { return hashed == "hashed:"+password }

func newTestUsecase() (domain.UserUsecase, *fakeUserRepo, *fakeRoleFinder) {
	repo := newFakeUserRepo()
	roles := &fakeRoleFinder{roles: map[string]*domain.Role{
		"role-active": {
			SQLModel: domain.SQLModel{ID: "role-active"},
			TenantID: "tenant-1",
			Code:     "salesperson",
			Active:   true,
		},
		"role-retired": {
			SQLModel: domain.SQLModel{ID: "role-retired"},
			TenantID: "tenant-1",
			Code:     "old_guard",
			Active:   false,
		},
	}}
	return NewUserUsecase(repo, roles, plainHasher{}), repo, roles
}

func validCreateRequest() *domain.UserCreateRequest {
	return &domain.UserCreateRequest{
		Email:     "ana@example.com",
		Password:  "sup3r-secret",
		FirstName: "Ana",
		LastName:  "Torres",
	}
}

func TestCreateUser(t *testing.T) {
	uc, _, _ := newTestUsecase()

	user, err := uc.Create(context.Background(), "tenant-1", validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", user.TenantID)
	assert.Equal(t, domain.UserSTTActive, user.Status)
	assert.Equal(t, "hashed:sup3r-secret", user.Password)
	assert.Empty(t, user.RoleID)
}

func TestCreateUserWithRole(t *testing.T) {
	uc, _, _ := newTestUsecase()

	req := validCreateRequest()
	req.RoleID = "role-active"
	user, err := uc.Create(context.Background(), "tenant-1", req)
	require.NoError(t, err)
	assert.Equal(t, "role-active", user.RoleID)
}

func TestCreateUserRejectsInactiveRole(t *testing.T) {
	uc, _, _ := newTestUsecase()

	req := validCreateRequest()
	req.RoleID = "role-retired"
	_, err := uc.Create(context.Background(), "tenant-1", req)
	assert.ErrorIs(t, err, domain.ErrRoleInactive)
}

func TestCreateUserRejectsForeignRole(t *testing.T) {
	uc, _, _ := newTestUsecase()

	req := validCreateRequest()
	req.RoleID = "role-active"
	_, err := uc.Create(context.Background(), "tenant-2", req)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.Create(ctx, "tenant-1", validCreateRequest())
	require.NoError(t, err)

	_, err = uc.Create(ctx, "tenant-1", validCreateRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestAssignRole(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	ctx := context.Background()

	user, err := uc.Create(ctx, "tenant-1", validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, uc.AssignRole(ctx, "tenant-1", user.ID, "role-active"))
	assert.Equal(t, "role-active", repo.users[user.ID].RoleID)

	err = uc.AssignRole(ctx, "tenant-1", user.ID, "role-retired")
	assert.ErrorIs(t, err, domain.ErrRoleInactive)

	err = uc.AssignRole(ctx, "tenant-2", user.ID, "role-active")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestFindByIDHidesOtherTenants(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()

	user, err := uc.Create(ctx, "tenant-1", validCreateRequest())
	require.NoError(t, err)

	found, err := uc.FindByID(ctx, "tenant-1", user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = uc.FindByID(ctx, "tenant-2", user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCountByRole(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req := validCreateRequest()
		req.Email = fmt.Sprintf("user%d@example.com", i)
		req.RoleID = "role-active"
		_, err := uc.Create(ctx, "tenant-1", req)
		require.NoError(t, err)
	}

	count, err := uc.CountByRole(ctx, "role-active")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
