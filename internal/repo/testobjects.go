package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/rbac_api/internal/models"
)

func (r *GormRepo) ListTestObjects(ctx context.Context, offset, limit int) (int64, []models.TestObject, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.TestObject{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.TestObject, 0, limit)
	if err := r.DB.WithContext(ctx).Model(&models.TestObject{}).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) FindTestObjectByID(ctx context.Context, id uint) (*models.TestObject, error) {
	return findByID[models.TestObject](ctx, r.DB, id)
}

func (r *GormRepo) CreateTestObject(ctx context.Context, obj *models.TestObject) error {
	return insertUnique(ctx, r, obj, "name", obj.Name)
}

func (r *GormRepo) UpdateTestObject(ctx context.Context, obj *models.TestObject) error {
	if obj.ID == 0 {
		return ErrNotFound
	}
	return updateUnique(ctx, r, obj, obj.ID, "name", obj.Name)
}

func (r *GormRepo) DeleteTestObject(ctx context.Context, id uint) error {
	return deleteByID[models.TestObject](ctx, r.DB, id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchTestObjects is a case-insensitive substring match on name and
// description, used when no search index is configured.
func (r *GormRepo) SearchTestObjects(ctx context.Context, q string, offset, limit int) (int64, []models.TestObject, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	where := `LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.TestObject{}).Where(where, pattern, pattern).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.TestObject, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.TestObject{}).
		Where(where, pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
