package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/validation"
)

type RoleService struct {
	Repo RoleStore
}

// RoleInput replaces a role's name and permissions. Permissions may be empty
// but not absent.
type RoleInput struct {
	Name        string
	Permissions []string
}

func (in RoleInput) validate() error {
	if err := validation.Required("name", validation.Sanitize(in.Name)); err != nil {
		return err
	}
	if in.Permissions == nil {
		return &validation.ValidationError{Field: "permissions", Reason: "required"}
	}
	for _, p := range in.Permissions {
		if err := validation.Required("permissions", p); err != nil {
			return err
		}
	}
	return nil
}

func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	return s.Repo.ListRoles(ctx)
}

func (s *RoleService) Get(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.Repo.FindRoleByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return role, err
}

func (s *RoleService) Create(ctx context.Context, in RoleInput) (*models.Role, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	role := &models.Role{Name: validation.Sanitize(in.Name), Permissions: in.Permissions}
	if err := s.Repo.CreateRole(ctx, role); err != nil {
		return nil, mapWriteErr("create role", err)
	}
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id uint, in RoleInput) (*models.Role, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Name = validation.Sanitize(in.Name)
	role.Permissions = in.Permissions
	if err := s.Repo.UpdateRole(ctx, role); err != nil {
		return nil, mapWriteErr("update role", err)
	}
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteRole(ctx, id); err != nil {
		return mapWriteErr("delete role", err)
	}
	return nil
}

func mapWriteErr(op string, err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return ErrConflict
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
