package service

import (
	"context"

	"github.com/Skotchmaster/rbac_api/internal/models"
)

// Store implementations report missing rows with repo.ErrNotFound and
// uniqueness violations with repo.ErrDuplicate.

type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// InsertUser assigns the id and rejects a taken username atomically.
	InsertUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) (bool, error)
}

type RoleReader interface {
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
}

type RoleStore interface {
	RoleReader
	ListRoles(ctx context.Context) ([]models.Role, error)
	FindRoleByID(ctx context.Context, id uint) (*models.Role, error)
	CreateRole(ctx context.Context, role *models.Role) error
	UpdateRole(ctx context.Context, role *models.Role) error
	DeleteRole(ctx context.Context, id uint) error
}

type ClaimStore interface {
	ListClaims(ctx context.Context) ([]models.Claim, error)
	FindClaimByID(ctx context.Context, id uint) (*models.Claim, error)
	CreateClaim(ctx context.Context, c *models.Claim) error
	UpdateClaim(ctx context.Context, c *models.Claim) error
	DeleteClaim(ctx context.Context, id uint) error
}

type TestObjectStore interface {
	ListTestObjects(ctx context.Context, offset, limit int) (int64, []models.TestObject, error)
	FindTestObjectByID(ctx context.Context, id uint) (*models.TestObject, error)
	CreateTestObject(ctx context.Context, obj *models.TestObject) error
	UpdateTestObject(ctx context.Context, obj *models.TestObject) error
	DeleteTestObject(ctx context.Context, id uint) error
	SearchTestObjects(ctx context.Context, q string, offset, limit int) (int64, []models.TestObject, error)
}
