package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/validation"
)

type ClaimService struct {
	Repo ClaimStore
}

type ClaimInput struct {
	Name        string
	Description string
}

func (in ClaimInput) validate() error {
	if err := validation.Required("name", validation.Sanitize(in.Name)); err != nil {
		return err
	}
	return validation.Required("description", in.Description)
}

func (s *ClaimService) List(ctx context.Context) ([]models.Claim, error) {
	return s.Repo.ListClaims(ctx)
}

func (s *ClaimService) Get(ctx context.Context, id uint) (*models.Claim, error) {
	c, err := s.Repo.FindClaimByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *ClaimService) Create(ctx context.Context, in ClaimInput) (*models.Claim, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &models.Claim{Name: validation.Sanitize(in.Name), Description: in.Description}
	if err := s.Repo.CreateClaim(ctx, c); err != nil {
		return nil, mapWriteErr("create claim", err)
	}
	return c, nil
}

func (s *ClaimService) Update(ctx context.Context, id uint, in ClaimInput) (*models.Claim, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = validation.Sanitize(in.Name)
	c.Description = in.Description
	if err := s.Repo.UpdateClaim(ctx, c); err != nil {
		return nil, mapWriteErr("update claim", err)
	}
	return c, nil
}

func (s *ClaimService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteClaim(ctx, id); err != nil {
		return mapWriteErr("delete claim", err)
	}
	return nil
}
