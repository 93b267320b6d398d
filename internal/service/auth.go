package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Skotchmaster/rbac_api/internal/events"
	"github.com/Skotchmaster/rbac_api/internal/hash"
	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/metrics"
	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/tokens"
	"github.com/Skotchmaster/rbac_api/internal/validation"
)

type AuthService struct {
	Users   UserStore
	Roles   RoleReader
	Tokens  *tokens.Service
	Notify  Notifier
	Metrics *metrics.Metrics
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// dummyHash is compared against when the username is unknown so both login
// failures cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := hash.HashPassword("dummy-password-for-timing")
	return h
})

// ClaimsFor snapshots the user's identity for a token.
func ClaimsFor(u *models.User) tokens.TokenClaims {
	perms := make([]string, len(u.Permissions))
	copy(perms, u.Permissions)
	return tokens.TokenClaims{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Permissions: perms,
	}
}

func validateRegistration(in RegisterInput) error {
	if err := validation.Username(in.Username); err != nil {
		return err
	}
	if err := validation.Email(in.Email); err != nil {
		return err
	}
	if err := validation.Phone(in.Phone); err != nil {
		return err
	}
	return validation.Password(in.Password)
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validateRegistration(in); err != nil {
		l.Warn("register_failed", "status", 400, "reason", err.Error())
		s.Metrics.ObserveRegister(metrics.ResultRejected)
		return nil, err
	}
	username := validation.Sanitize(in.Username)

	if _, err := s.Users.FindUserByUsername(ctx, username); err == nil {
		l.Warn("register_failed", "status", 409, "reason", "username taken")
		s.Metrics.ObserveRegister(metrics.ResultRejected)
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, repo.ErrNotFound) {
		l.Error("register_failed", "status", 500, "reason", "cannot look up user", "error", err)
		s.Metrics.ObserveRegister(metrics.ResultFailure)
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	perms, err := s.rolePermissions(ctx, models.RoleUser)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot load default role", "error", err)
		s.Metrics.ObserveRegister(metrics.ResultFailure)
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		s.Metrics.ObserveRegister(metrics.ResultFailure)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         models.RoleUser,
		Permissions:  perms,
	}
	if err := s.Users.InsertUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_failed", "status", 409, "reason", "username taken")
			s.Metrics.ObserveRegister(metrics.ResultRejected)
			return nil, ErrDuplicateUser
		}
		l.Error("register_failed", "status", 500, "reason", "cannot insert user", "error", err)
		s.Metrics.ObserveRegister(metrics.ResultFailure)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.Metrics.ObserveRegister(metrics.ResultSuccess)
	s.Notify.userEvent(ctx, events.TypeUserRegistered, user)
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// rolePermissions returns an empty set when the role record is missing.
func (s *AuthService) rolePermissions(ctx context.Context, role string) ([]string, error) {
	if s.Roles == nil {
		return []string{}, nil
	}
	r, err := s.Roles.FindRoleByName(ctx, role)
	if errors.Is(err, repo.ErrNotFound) {
		logging.FromContext(ctx).Warn("role_missing", "role", role)
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup role %s: %w", role, err)
	}
	return r.Permissions, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			hash.CheckPassword(dummyHash(), password)
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			s.Metrics.ObserveLogin(metrics.ResultFailure)
			return nil, ErrUserNotFound
		}
		l.Error("login_failed", "status", 500, "reason", "cannot look up user", "error", err)
		s.Metrics.ObserveLogin(metrics.ResultFailure)
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		s.Metrics.ObserveLogin(metrics.ResultFailure)
		return nil, ErrInvalidCredentials
	}

	token, stamped, err := s.Tokens.Issue(ClaimsFor(user))
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		s.Metrics.ObserveLogin(metrics.ResultFailure)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.Metrics.ObserveLogin(metrics.ResultSuccess)
	s.Notify.userEvent(ctx, events.TypeUserLoggedIn, user)
	l.Info("login_successful", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, ExpiresAt: stamped.ExpiresAt, User: user}, nil
}

// AdminToken logs in and refuses accounts whose role is not admin.
func (s *AuthService) AdminToken(ctx context.Context, username, password string) (*LoginResult, error) {
	res, err := s.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if res.User.Role != models.RoleAdmin {
		logging.FromContext(ctx).Warn("admin_token_refused", "username", username, "role", res.User.Role)
		return nil, ErrNotAdmin
	}
	return res, nil
}
