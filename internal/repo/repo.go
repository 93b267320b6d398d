package repo

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/Skotchmaster/rbac_api/internal/models"
)

var (
	ErrNotFound  = gorm.ErrRecordNotFound
	ErrDuplicate = errors.New("record already exists")
)

// GormRepo is the single store behind every service. Writes that check a
// uniqueness rule before inserting run under mu and inside one transaction.
type GormRepo struct {
	DB *gorm.DB

	mu sync.Mutex
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func (r *GormRepo) locked(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.DB.WithContext(ctx).Transaction(fn)
}

func list[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	items := make([]T, 0)
	if err := db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func findByID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var item T
	if err := db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ensureFree fails with ErrDuplicate when another row already holds value in
// column. exceptID excludes the row being updated.
func ensureFree[T any](tx *gorm.DB, column, value string, exceptID uint) error {
	var n int64
	q := tx.Model(new(T)).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicate
	}
	return nil
}

func insertUnique[T any](ctx context.Context, r *GormRepo, item *T, column, value string) error {
	return r.locked(ctx, func(tx *gorm.DB) error {
		if err := ensureFree[T](tx, column, value, 0); err != nil {
			return err
		}
		return tx.Create(item).Error
	})
}

func updateUnique[T any](ctx context.Context, r *GormRepo, item *T, id uint, column, value string) error {
	return r.locked(ctx, func(tx *gorm.DB) error {
		if err := ensureFree[T](tx, column, value, id); err != nil {
			return err
		}
		res := tx.Model(item).Select("*").Updates(item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
