package repo

import (
	"context"

	"github.com/Skotchmaster/rbac_api/internal/models"
)

func (r *GormRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	return list[models.Role](ctx, r.DB)
}

func (r *GormRepo) FindRoleByID(ctx context.Context, id uint) (*models.Role, error) {
	return findByID[models.Role](ctx, r.DB, id)
}

func (r *GormRepo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) CreateRole(ctx context.Context, role *models.Role) error {
	role.Permissions = nonNil(role.Permissions)
	return insertUnique(ctx, r, role, "name", role.Name)
}

func (r *GormRepo) UpdateRole(ctx context.Context, role *models.Role) error {
	if role.ID == 0 {
		return ErrNotFound
	}
	role.Permissions = nonNil(role.Permissions)
	return updateUnique(ctx, r, role, role.ID, "name", role.Name)
}

func (r *GormRepo) DeleteRole(ctx context.Context, id uint) error {
	return deleteByID[models.Role](ctx, r.DB, id)
}
