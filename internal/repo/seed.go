package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/rbac_api/internal/models"
)

type SeedData struct {
	Roles       []models.Role
	Claims      []models.Claim
	Users       []models.User
	TestObjects []models.TestObject
}

// Seed fills every empty table from d. Tables that already hold rows are
// left untouched.
func (r *GormRepo) Seed(ctx context.Context, d SeedData) error {
	return r.locked(ctx, func(tx *gorm.DB) error {
		for i := range d.Roles {
			d.Roles[i].Permissions = nonNil(d.Roles[i].Permissions)
		}
		for i := range d.Users {
			d.Users[i].Permissions = nonNil(d.Users[i].Permissions)
		}

		if err := seedTable(tx, d.Roles); err != nil {
			return err
		}
		if err := seedTable(tx, d.Claims); err != nil {
			return err
		}
		if err := seedTable(tx, d.Users); err != nil {
			return err
		}
		return seedTable(tx, d.TestObjects)
	})
}

func seedTable[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	var n int64
	if err := tx.Model(new(T)).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
