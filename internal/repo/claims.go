package repo

import (
	"context"

	"github.com/Skotchmaster/rbac_api/internal/models"
)

func (r *GormRepo) ListClaims(ctx context.Context) ([]models.Claim, error) {
	return list[models.Claim](ctx, r.DB)
}

func (r *GormRepo) FindClaimByID(ctx context.Context, id uint) (*models.Claim, error) {
	return findByID[models.Claim](ctx, r.DB, id)
}

func (r *GormRepo) CreateClaim(ctx context.Context, c *models.Claim) error {
	return insertUnique(ctx, r, c, "name", c.Name)
}

func (r *GormRepo) UpdateClaim(ctx context.Context, c *models.Claim) error {
	if c.ID == 0 {
		return ErrNotFound
	}
	return updateUnique(ctx, r, c, c.ID, "name", c.Name)
}

func (r *GormRepo) DeleteClaim(ctx context.Context, id uint) error {
	return deleteByID[models.Claim](ctx, r.DB, id)
}
