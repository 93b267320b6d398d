package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/rbac_api/internal/models"
)

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	return findByID[models.User](ctx, r.DB, id)
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, r.DB)
}

// InsertUser checks the username, assigns max(id)+1 and inserts in one step.
func (r *GormRepo) InsertUser(ctx context.Context, u *models.User) error {
	u.Permissions = nonNil(u.Permissions)
	return r.locked(ctx, func(tx *gorm.DB) error {
		if err := ensureFree[models.User](tx, "username", u.Username, 0); err != nil {
			return err
		}

		var maxID uint
		if err := tx.Model(&models.User{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		u.ID = maxID + 1

		return tx.Create(u).Error
	})
}

func (r *GormRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u.ID == 0 {
		return ErrNotFound
	}
	u.Permissions = nonNil(u.Permissions)
	return updateUnique(ctx, r, u, u.ID, "username", u.Username)
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uint) (bool, error) {
	err := deleteByID[models.User](ctx, r.DB, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
