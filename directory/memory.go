package directory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Directory and Seeder. It is the reference
// implementation used by tests and the runnable example; all uniqueness
// checks happen under one lock, so Create is atomic the same way a database
// unique index is.
type Memory struct {
	mu          sync.RWMutex
	byID        map[string]Principal
	emailIndex  map[string]string // lowercased email -> principal id
	phoneIndex  map[string]string
	roles       map[string]*memoryRole
	permissions map[string]Permission
	grants      map[string]map[string]struct{} // principal id -> role names
}

type memoryRole struct {
	role  Role
	perms map[string]struct{}
}

// NewMemory returns an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{
		byID:        make(map[string]Principal),
		emailIndex:  make(map[string]string),
		phoneIndex:  make(map[string]string),
		roles:       make(map[string]*memoryRole),
		permissions: make(map[string]Permission),
		grants:      make(map[string]map[string]struct{}),
	}
}

func (m *Memory) FindByEmail(_ context.Context, email string) (Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emailIndex[email]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return m.byID[id], nil
}

func (m *Memory) FindByPhone(_ context.Context, phone string) (Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if phone == "" {
		return Principal{}, ErrNotFound
	}
	id, ok := m.phoneIndex[phone]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return m.byID[id], nil
}

func (m *Memory) FindByID(_ context.Context, id string) (Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	principal, ok := m.byID[id]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return principal, nil
}

func (m *Memory) FindByIdentifier(ctx context.Context, identifier string) (Principal, error) {
	if principal, err := m.FindByEmail(ctx, identifier); err == nil {
		return principal, nil
	}
	return m.FindByPhone(ctx, identifier)
}

func (m *Memory) Create(_ context.Context, input CreateInput) (Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if input.ID == "" || input.Email == "" {
		return Principal{}, fmt.Errorf("directory: create requires id and email")
	}
	if _, exists := m.emailIndex[input.Email]; exists {
		return Principal{}, ErrDuplicateEmail
	}
	if input.Phone != "" {
		if _, exists := m.phoneIndex[input.Phone]; exists {
			return Principal{}, ErrDuplicatePhone
		}
	}
	if _, exists := m.byID[input.ID]; exists {
		return Principal{}, fmt.Errorf("directory: duplicate principal id %q", input.ID)
	}

	status := input.Status
	if status == "" {
		status = StatusActive
	}

	principal := Principal{
		ID:           input.ID,
		Email:        input.Email,
		Phone:        input.Phone,
		FullName:     input.FullName,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		Status:       status,
		CreatedAt:    time.Now(),
	}

	m.byID[input.ID] = principal
	m.emailIndex[input.Email] = input.ID
	if input.Phone != "" {
		m.phoneIndex[input.Phone] = input.ID
	}

	return principal, nil
}

func (m *Memory) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	principal, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	principal.PasswordHash = passwordHash
	m.byID[id] = principal
	return nil
}

func (m *Memory) RecordLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	principal, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	stamp := at
	principal.LastLoginAt = &stamp
	m.byID[id] = principal
	return nil
}

func (m *Memory) ListAll(_ context.Context) ([]Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Principal, 0, len(m.byID))
	for _, principal := range m.byID {
		out = append(out, principal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) RolesOf(_ context.Context, id string) ([]Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := m.grants[id]
	out := make([]Role, 0, len(names))
	for name := range names {
		if entry, ok := m.roles[name]; ok {
			out = append(out, m.snapshotRole(entry))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) PermissionsOfRoles(_ context.Context, roleNames []string) ([]Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []Permission
	for _, name := range roleNames {
		entry, ok := m.roles[name]
		if !ok {
			continue
		}
		for permName := range entry.perms {
			if _, dup := seen[permName]; dup {
				continue
			}
			seen[permName] = struct{}{}
			out = append(out, m.permissions[permName])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) UpsertRole(_ context.Context, name, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.roles[name]; exists {
		return nil
	}
	m.roles[name] = &memoryRole{
		role:  Role{Name: name, Description: description},
		perms: make(map[string]struct{}),
	}
	return nil
}

func (m *Memory) UpsertPermission(_ context.Context, name, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.permissions[name]; exists {
		return nil
	}
	m.permissions[name] = Permission{Name: name, Description: description}
	return nil
}

func (m *Memory) GrantPermissions(_ context.Context, roleName string, permissionNames []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.roles[roleName]
	if !ok {
		return ErrNotFound
	}
	for _, name := range permissionNames {
		if _, exists := m.permissions[name]; !exists {
			return fmt.Errorf("directory: unknown permission %q", name)
		}
		entry.perms[name] = struct{}{}
	}
	return nil
}

func (m *Memory) AssignRole(_ context.Context, principalID, roleName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[principalID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.roles[roleName]; !ok {
		return ErrNotFound
	}
	if m.grants[principalID] == nil {
		m.grants[principalID] = make(map[string]struct{})
	}
	m.grants[principalID][roleName] = struct{}{}
	return nil
}

func (m *Memory) snapshotRole(entry *memoryRole) Role {
	role := Role{Name: entry.role.Name, Description: entry.role.Description}
	role.Permissions = make([]Permission, 0, len(entry.perms))
	for name := range entry.perms {
		role.Permissions = append(role.Permissions, m.permissions[name])
	}
	sort.Slice(role.Permissions, func(i, j int) bool {
		return role.Permissions[i].Name < role.Permissions[j].Name
	})
	return role
}
