package directory

import (
	"context"
	"errors"
	"time"
)

// Account status values stored on a principal record.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

var (
	// ErrNotFound is returned by lookups when no record matches. It is a
	// business outcome, not an infrastructure failure; stores must never
	// return it for I/O errors.
	ErrNotFound = errors.New("directory: record not found")
	// ErrDuplicateEmail is returned by Create when the email is already taken.
	ErrDuplicateEmail = errors.New("directory: duplicate email")
	// ErrDuplicatePhone is returned by Create when the phone is already taken.
	ErrDuplicatePhone = errors.New("directory: duplicate phone")
)

// Principal is a directory record for one authenticated entity. PasswordHash
// never leaves the engine boundary; engine callers receive sanitized views.
type Principal struct {
	ID           string
	Email        string
	Phone        string // empty means no phone on record
	FullName     string
	PasswordHash string
	Role         string // legacy scalar role, a guaranteed minimum role
	Status       string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// Role is a named grant bundle. Permissions carries the many-to-many grants
// when the store loads them eagerly; RolesOf always populates it.
type Role struct {
	Name        string
	Description string
	Permissions []Permission
}

// Permission is a dot-namespaced capability name, e.g. "dashboard.view".
type Permission struct {
	Name        string
	Description string
}

// CreateInput carries the fields for a new principal record. The caller
// supplies the ID; stores never invent identity.
type CreateInput struct {
	ID           string
	Email        string
	Phone        string
	FullName     string
	PasswordHash string
	Role         string
	Status       string
}

// Directory is the query surface the engine consumes. Implementations must be
// safe for concurrent use and must enforce email/phone uniqueness atomically
// inside Create, reporting violations as ErrDuplicateEmail or
// ErrDuplicatePhone.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (Principal, error)
	FindByPhone(ctx context.Context, phone string) (Principal, error)
	FindByID(ctx context.Context, id string) (Principal, error)
	// FindByIdentifier resolves an identifier that is either an email or a
	// phone number, email first.
	FindByIdentifier(ctx context.Context, identifier string) (Principal, error)
	Create(ctx context.Context, input CreateInput) (Principal, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// RecordLogin stamps the principal's last successful login time.
	RecordLogin(ctx context.Context, id string, at time.Time) error
	ListAll(ctx context.Context) ([]Principal, error)

	// RolesOf returns the graph-relation roles of a principal with their
	// permissions loaded. The legacy scalar role is not included; resolving
	// the union is rbac's concern.
	RolesOf(ctx context.Context, id string) ([]Role, error)
	// PermissionsOfRoles returns the deduplicated permissions reachable
	// through the named roles.
	PermissionsOfRoles(ctx context.Context, roleNames []string) ([]Permission, error)
}

// Seeder is the bootstrap write surface consumed by EnsureSeeded. Every
// operation is an idempotent upsert keyed by name.
type Seeder interface {
	UpsertRole(ctx context.Context, name, description string) error
	UpsertPermission(ctx context.Context, name, description string) error
	// GrantPermissions attaches the named permissions to the role, skipping
	// grants that already exist.
	GrantPermissions(ctx context.Context, roleName string, permissionNames []string) error
	// AssignRole attaches a graph-relation role to a principal, skipping the
	// assignment when it already exists.
	AssignRole(ctx context.Context, principalID, roleName string) error
}
