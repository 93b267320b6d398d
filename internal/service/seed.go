package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/rbac_api/internal/hash"
	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/repo"
)

var (
	adminPermissions = []string{
		"CreateUser", "CreateRole", "CreateClaim", "CreateTestObject", "UpdateUser",
		"DeleteUser", "UpdateRole", "DeleteRole", "UpdateClaim", "DeleteClaim",
	}
	userPermissions = []string{"CreateTestObject", "ReadTestObject", "UpdateTestObject", "DeleteTestObject"}
)

var defaultClaims = []models.Claim{
	{Name: "CreateUser", Description: "Create users"},
	{Name: "UpdateUser", Description: "Update users"},
	{Name: "DeleteUser", Description: "Delete users"},
	{Name: "CreateRole", Description: "Create roles"},
	{Name: "UpdateRole", Description: "Update roles"},
	{Name: "DeleteRole", Description: "Delete roles"},
	{Name: "CreateClaim", Description: "Create claims"},
	{Name: "UpdateClaim", Description: "Update claims"},
	{Name: "DeleteClaim", Description: "Delete claims"},
	{Name: "CreateTestObject", Description: "Create test objects"},
	{Name: "ReadTestObject", Description: "Read test objects"},
	{Name: "UpdateTestObject", Description: "Update test objects"},
	{Name: "DeleteTestObject", Description: "Delete test objects"},
}

type seedUser struct {
	id       uint
	username string
	password string
	email    string
	phone    string
	role     string
	perms    []string
}

var defaultUsers = []seedUser{
	{id: 1, username: "admin", password: "admin123", email: "admin@example.com", phone: "1234567890", role: models.RoleAdmin, perms: adminPermissions},
	{id: 2, username: "user2", password: "password123", email: "user@example.com", phone: "1024567890", role: models.RoleUser, perms: userPermissions},
}

// DefaultSeed builds the bootstrap data set with freshly hashed passwords.
func DefaultSeed() (repo.SeedData, error) {
	users := make([]models.User, 0, len(defaultUsers))
	for _, su := range defaultUsers {
		pwHash, err := hash.HashPassword(su.password)
		if err != nil {
			return repo.SeedData{}, fmt.Errorf("seed user %s: %w", su.username, err)
		}
		users = append(users, models.User{
			ID:           su.id,
			Username:     su.username,
			PasswordHash: pwHash,
			Email:        su.email,
			Phone:        su.phone,
			Role:         su.role,
			Permissions:  append([]string{}, su.perms...),
		})
	}

	return repo.SeedData{
		Roles: []models.Role{
			{Name: models.RoleAdmin, Permissions: append([]string{}, adminPermissions...)},
			{Name: models.RoleUser, Permissions: append([]string{}, userPermissions...)},
		},
		Claims: append([]models.Claim{}, defaultClaims...),
		Users:  users,
		TestObjects: []models.TestObject{
			{Name: "TestObject 1", Description: "First test object"},
			{Name: "TestObject 2", Description: "Second test object"},
		},
	}, nil
}

type Seeder interface {
	Seed(ctx context.Context, d repo.SeedData) error
}

func SeedDefaults(ctx context.Context, s Seeder) error {
	d, err := DefaultSeed()
	if err != nil {
		return err
	}
	return s.Seed(ctx, d)
}
