package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Skotchmaster/rbac_api/internal/hash"
)

var ErrValidation = errors.New("validation failed")

// ValidationError names the first offending field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func fail(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_@.]{3,50}$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)
	phoneRe    = regexp.MustCompile(`^(\+\d{1,3})?\d{10}$`)
)

func Username(s string) error {
	if !usernameRe.MatchString(s) {
		return fail("username", "3 to 50 letters, digits, '_', '@' or '.'")
	}
	return nil
}

func Email(s string) error {
	if !emailRe.MatchString(s) {
		return fail("email", "malformed address")
	}
	return nil
}

// Phone accepts an empty value; the field is optional.
func Phone(s string) error {
	if s == "" {
		return nil
	}
	if !phoneRe.MatchString(s) {
		return fail("phone", "10 digits with optional +country code")
	}
	return nil
}

func Password(s string) error {
	switch {
	case s == "":
		return fail("password", "required")
	case len(s) > hash.MaxPasswordBytes:
		return fail("password", fmt.Sprintf("at most %d bytes", hash.MaxPasswordBytes))
	}
	return nil
}

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fail(field, "required")
	}
	return nil
}

// ParseID accepts positive decimal integers only.
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fail("id", "invalid id format")
	}
	return uint(n), nil
}

var sanitizer = strings.NewReplacer("<", "", ">", "", "/", "", `"`, "", "'", "", "`", "", "&", "")

// Sanitize strips markup and quoting characters.
func Sanitize(s string) string {
	return sanitizer.Replace(s)
}
