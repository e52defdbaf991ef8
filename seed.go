package ticketauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tunatran99/ticketauth/directory"
	"github.com/tunatran99/ticketauth/password"
)

// SeedRole and SeedPermission describe bootstrap catalog entries.
type SeedRole struct {
	Name        string
	Description string
}

type SeedPermission struct {
	Name        string
	Description string
}

// SeedConfig is the bootstrap catalog: the fixed role and permission sets,
// which role receives every permission, and the administrative principal
// created when none exists.
type SeedConfig struct {
	Roles       []SeedRole
	Permissions []SeedPermission
	// AdminRole is granted every seeded permission and attached to the
	// administrative principal.
	AdminRole     string
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

// DefaultSeedConfig returns the stock catalog for the booking backend.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Roles: []SeedRole{
			{Name: "admin", Description: "admin role"},
			{Name: "passenger", Description: "passenger role"},
			{Name: "support", Description: "support role"},
		},
		Permissions: []SeedPermission{
			{Name: "user.read", Description: "Permission user.read"},
			{Name: "user.write", Description: "Permission user.write"},
			{Name: "ticket.read", Description: "Permission ticket.read"},
			{Name: "ticket.write", Description: "Permission ticket.write"},
			{Name: "dashboard.view", Description: "Permission dashboard.view"},
		},
		AdminRole:     "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "Admin123!",
		AdminFullName: "System Administrator",
	}
}

// SeedDirectory is the directory surface the seeding procedure needs.
// Both reference implementations satisfy it.
type SeedDirectory interface {
	directory.Seeder
	FindByEmail(ctx context.Context, email string) (directory.Principal, error)
	Create(ctx context.Context, input directory.CreateInput) (directory.Principal, error)
}

// EnsureSeeded reconciles the directory with the seed catalog. It is
// idempotent and safe to run on every process start: existing records are
// left alone, newly added permissions are re-linked to the admin role, and
// the administrative principal is created only when absent. No process-wide
// state is kept; the directory itself is the ledger.
func EnsureSeeded(ctx context.Context, dir SeedDirectory, hasher *password.Hasher, cfg SeedConfig) error {
	if dir == nil {
		return errors.New("ticketauth: seed directory is required")
	}
	if hasher == nil {
		return errors.New("ticketauth: seed hasher is required")
	}
	if cfg.AdminRole == "" {
		return errors.New("ticketauth: seed admin role is required")
	}

	for _, role := range cfg.Roles {
		if err := dir.UpsertRole(ctx, role.Name, role.Description); err != nil {
			return fmt.Errorf("seed role %q: %w", role.Name, err)
		}
	}

	permissionNames := make([]string, 0, len(cfg.Permissions))
	for _, permission := range cfg.Permissions {
		if err := dir.UpsertPermission(ctx, permission.Name, permission.Description); err != nil {
			return fmt.Errorf("seed permission %q: %w", permission.Name, err)
		}
		permissionNames = append(permissionNames, permission.Name)
	}

	if err := dir.GrantPermissions(ctx, cfg.AdminRole, permissionNames); err != nil {
		return fmt.Errorf("seed admin grants: %w", err)
	}

	return ensureAdminPrincipal(ctx, dir, hasher, cfg)
}

func ensureAdminPrincipal(ctx context.Context, dir SeedDirectory, hasher *password.Hasher, cfg SeedConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		return nil
	}

	admin, err := dir.FindByEmail(ctx, email)
	if errors.Is(err, directory.ErrNotFound) {
		hash, hashErr := hasher.Hash(cfg.AdminPassword)
		if hashErr != nil {
			return fmt.Errorf("seed admin password: %w", hashErr)
		}
		admin, err = dir.Create(ctx, directory.CreateInput{
			ID:           newPrincipalID(),
			Email:        email,
			FullName:     cfg.AdminFullName,
			PasswordHash: hash,
			Role:         cfg.AdminRole,
			Status:       directory.StatusActive,
		})
	}
	if err != nil {
		return fmt.Errorf("seed admin principal: %w", err)
	}

	// Attaching the graph role is idempotent and also repairs an admin
	// created before the role existed.
	if err := dir.AssignRole(ctx, admin.ID, cfg.AdminRole); err != nil {
		return fmt.Errorf("seed admin role assignment: %w", err)
	}

	return nil
}
