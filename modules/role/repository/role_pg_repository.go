package repository

import (
	"context"
	"errors"

	"comercia/database"
	"comercia/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	db         *gorm.DB
	sqlHandler *database.SQLHandler[domain.Role, domain.RoleFilter]
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	sqlHandler := database.NewSQLHandler[domain.Role](db, applyFilter)
	return &RoleRepository{
		db:         db,
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.RoleFilter) *gorm.DB {
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
	if filter.Code != nil {
		qb = qb.Where("code = ?", *filter.Code)
	}
	if filter.Active != nil {
		qb = qb.Where("active = ?", *filter.Active)
	}
	if filter.IsSystemRole != nil {
		qb = qb.Where("is_system_role = ?", *filter.IsSystemRole)
	}
	if filter.BaseTemplate != nil {
		qb = qb.Where("base_template = ?", *filter.BaseTemplate)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		qb = database.ApplySearch(qb, *filter.SearchTerm, nil, map[string]string{
			"code": "code",
			"name": "name",
		})
	}
	if filter.IncludeDeleted == nil || !*filter.IncludeDeleted {
		qb = qb.Where("deleted_at = 0")
	}

	return qb
}

// Create persists a new role. The composite unique index on
// (tenant_id, code) is the authority on duplicates: two concurrent creations
// of the same code race at the database, not in application code.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	err := r.sqlHandler.Create(ctx, role)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrRoleCodeConflict.WithWrap(err)
		}
		return err
	}
	return nil
}

// UpsertSystemRole writes a provisioned system role keyed on
// (tenant_id, code). Re-provisioning a tenant updates the existing row in
// place, which keeps the operation idempotent.
func (r *RoleRepository) UpsertSystemRole(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "base_template", "grants", "special",
			"color", "icon", "sort_order", "active", "is_system_role", "updated_at",
		}),
	}).Create(role).Error
	if err != nil {
		return nil, err
	}
	// On conflict the insert does not report the surviving row's id.
	return r.FindByTenantAndCode(ctx, role.TenantID, role.Code)
}

func (r *RoleRepository) FindByID(ctx context.Context, roleID string) (*domain.Role, error) {
	return r.sqlHandler.FindByID(ctx, roleID, nil)
}

func (r *RoleRepository) FindByTenantAndCode(ctx context.Context, tenantID, code string) (*domain.Role, error) {
	return r.sqlHandler.FindOne(ctx, &domain.RoleFilter{
		TenantID: &tenantID,
		Code:     &code,
	}, nil)
}

func (r *RoleRepository) FindOne(ctx context.Context, filter *domain.RoleFilter, option *domain.FindOneOption) (*domain.Role, error) {
	return r.sqlHandler.FindOne(ctx, filter, option)
}

func (r *RoleRepository) FindMany(ctx context.Context, filter *domain.RoleFilter, option *domain.FindManyOption) ([]*domain.Role, error) {
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *RoleRepository) FindPage(ctx context.Context, filter *domain.RoleFilter, option *domain.FindPageOption) ([]*domain.Role, *domain.Pagination, error) {
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	err := r.sqlHandler.Update(ctx, role)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrRoleCodeConflict.WithWrap(err)
	}
	return err
}

func (r *RoleRepository) UpdateFields(ctx context.Context, roleID string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, roleID, fields)
}

// Delete removes the row for good so the (tenant_id, code) slot becomes
// reusable. The usecase has already verified the role is neither a system
// role nor assigned to anyone.
func (r *RoleRepository) Delete(ctx context.Context, roleID string) error {
	return r.sqlHandler.HardDeleteByID(ctx, roleID)
}

func (r *RoleRepository) Count(ctx context.Context, filter *domain.RoleFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
