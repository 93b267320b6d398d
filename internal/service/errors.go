package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/rbac_api/internal/validation"
)

var (
	ErrValidation = validation.ErrValidation

	// ErrInvalidCredentials is the only login failure callers need to check;
	// ErrUserNotFound matches it too.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = fmt.Errorf("%w: unknown user", ErrInvalidCredentials)

	ErrDuplicateUser = errors.New("username already taken")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrNotAdmin      = errors.New("user is not an admin")

	ErrUnknownRole     error = &validation.ValidationError{Field: "role", Reason: "unknown role"}
	ErrTestObjectTaken error = &validation.ValidationError{Field: "name", Reason: "test object name already exists"}
)
