package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayush/movie-collection/backend/internal/models"
)

// Admin describes the super admin account created on an empty database.
type Admin struct {
	Username string
	Email    string
	Password string
}

// RoleSeeder is the role storage Seed needs.
type RoleSeeder interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, name models.Role) (*models.UserRole, error)
	FindByName(ctx context.Context, name models.Role) (*models.UserRole, error)
}

// UserSeeder is the user storage Seed needs.
type UserSeeder interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u *models.User) error
}

// SeedResult reports what Seed created.
type SeedResult struct {
	RolesCreated []models.Role
	Admin        *models.User
}

// Seed creates the ADMIN and USER roles when the role table is empty, then
// the super admin when the user table is empty. hash is only called when the
// admin is actually created.
func Seed(ctx context.Context, roles RoleSeeder, users UserSeeder, admin Admin, hash func(string) (string, error)) (SeedResult, error) {
	var res SeedResult

	n, err := roles.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count roles: %w", err)
	}
	if n == 0 {
		for _, name := range models.Roles {
			_, err := roles.Create(ctx, name)
			switch {
			case err == nil:
				res.RolesCreated = append(res.RolesCreated, name)
			case errors.Is(err, ErrDuplicate):
			default:
				return res, fmt.Errorf("seed role %s: %w", name, err)
			}
		}
	}

	n, err = users.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return res, nil
	}
	role, err := roles.FindByName(ctx, models.RoleAdmin)
	if err != nil {
		return res, fmt.Errorf("find admin role: %w", err)
	}
	hashed, err := hash(admin.Password)
	if err != nil {
		return res, err
	}
	u := &models.User{Username: admin.Username, Email: admin.Email, Password: hashed, Role: role.Name}
	if err := users.Create(ctx, u); err != nil {
		return res, fmt.Errorf("seed admin: %w", err)
	}
	res.Admin = u
	return res, nil
}
