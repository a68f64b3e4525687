package repository

import (
	"context"
	"errors"

	"comercia/database"
	"comercia/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	sqlHandler *database.SQLHandler[domain.User, domain.UserFilter]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	sqlHandler := database.NewSQLHandler[domain.User](db, applyFilter)
	return &UserRepository{
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.UserFilter) *gorm.DB {
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if len(filter.IDIn) > 0 {
		qb = qb.Where("id IN (?)", filter.IDIn)
	}
	if filter.TenantID != nil {
		qb = qb.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Email != nil {
		qb = qb.Where("email = ?", *filter.Email)
	}
	if filter.RoleID != nil {
		qb = qb.Where("role_id = ?", *filter.RoleID)
	}
	if filter.Active != nil {
		if *filter.Active {
			qb = qb.Where("status = ?", domain.UserSTTActive)
		} else {
			qb = qb.Where("status != ?", domain.UserSTTActive)
		}
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		qb = database.ApplySearch(qb, *filter.SearchTerm, filter.SearchFields, map[string]string{
			"email":      "email",
			"first_name": "first_name",
			"last_name":  "last_name",
		})
	}
	if filter.IncludeDeleted == nil || !*filter.IncludeDeleted {
		qb = qb.Where("deleted_at = 0")
	}

	return qb
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.sqlHandler.Create(ctx, user)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailAlreadyExists.WithWrap(err)
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID string, option *domain.FindOneOption) (*domain.User, error) {
	return r.sqlHandler.FindByID(ctx, userID, option)
}

func (r *UserRepository) FindOne(ctx context.Context, filter *domain.UserFilter, option *domain.FindOneOption) (*domain.User, error) {
	return r.sqlHandler.FindOne(ctx, filter, option)
}

func (r *UserRepository) FindMany(ctx context.Context, filter *domain.UserFilter, option *domain.FindManyOption) ([]*domain.User, error) {
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *UserRepository) FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.sqlHandler.Update(ctx, user)
}

func (r *UserRepository) UpdateFields(ctx context.Context, userID string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, userID, fields)
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	return r.sqlHandler.SoftDeleteByID(ctx, userID)
}

func (r *UserRepository) CountByRole(ctx context.Context, roleID string) (int64, error) {
	return r.sqlHandler.Count(ctx, &domain.UserFilter{RoleID: &roleID})
}

func (r *UserRepository) Count(ctx context.Context, filter *domain.UserFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
