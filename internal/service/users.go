package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/rbac_api/internal/events"
	"github.com/Skotchmaster/rbac_api/internal/hash"
	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/validation"
)

type UserService struct {
	Users  UserStore
	Roles  RoleReader
	Notify Notifier
}

// UpdateUserInput changes only the non-nil fields.
type UpdateUserInput struct {
	Username *string
	Password *string
	Email    *string
	Phone    *string
	Role     *string
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Users.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Users.FindUserByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

func validateUpdate(in UpdateUserInput) error {
	if in.Username != nil {
		if err := validation.Username(*in.Username); err != nil {
			return err
		}
	}
	if in.Email != nil {
		if err := validation.Email(*in.Email); err != nil {
			return err
		}
	}
	if in.Phone != nil {
		if err := validation.Phone(*in.Phone); err != nil {
			return err
		}
	}
	if in.Password != nil {
		if err := validation.Password(*in.Password); err != nil {
			return err
		}
	}
	if in.Role != nil {
		if err := validation.Required("role", *in.Role); err != nil {
			return err
		}
	}
	return nil
}

// Update applies in to the user. A role change re-seeds permissions from
// the role record; tokens issued earlier keep their old snapshot.
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.update", "user_id", id)

	if err := validateUpdate(in); err != nil {
		l.Warn("update_user_failed", "status", 400, "reason", err.Error())
		return nil, err
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		name := validation.Sanitize(*in.Username)
		if err := validation.Required("username", name); err != nil {
			return nil, err
		}
		u.Username = name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Role != nil && *in.Role != u.Role {
		role, err := s.Roles.FindRoleByName(ctx, *in.Role)
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("update_user_failed", "status", 400, "reason", "unknown role", "role", *in.Role)
			return nil, ErrUnknownRole
		}
		if err != nil {
			return nil, fmt.Errorf("lookup role: %w", err)
		}
		u.Role = role.Name
		u.Permissions = append([]string{}, role.Permissions...)
	}
	if in.Password != nil {
		pwHash, err := hash.HashPassword(*in.Password)
		if err != nil {
			l.Error("update_user_failed", "status", 500, "reason", "cannot hash the password", "error", err)
			return nil, err
		}
		u.PasswordHash = pwHash
	}

	if err := s.Users.UpdateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			l.Warn("update_user_failed", "status", 409, "reason", "username taken")
			return nil, ErrDuplicateUser
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.Notify.userEvent(ctx, events.TypeUserUpdated, u)
	l.Info("update_user_success")
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.Users.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	s.Notify.userEvent(ctx, events.TypeUserDeleted, u)
	logging.FromContext(ctx).Info("delete_user_success", "svc", "users.delete", "user_id", id)
	return nil
}
