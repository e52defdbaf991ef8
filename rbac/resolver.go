package rbac

import (
	"context"
	"errors"
	"sort"

	"github.com/tunatran99/ticketauth/directory"
)

// Graph is the slice of the principal directory the resolver reads. It is
// satisfied by directory.Directory.
type Graph interface {
	FindByID(ctx context.Context, id string) (directory.Principal, error)
	RolesOf(ctx context.Context, id string) ([]directory.Role, error)
	PermissionsOfRoles(ctx context.Context, roleNames []string) ([]directory.Permission, error)
}

// Resolver computes effective role and permission sets. Stateless; safe for
// concurrent use.
type Resolver struct {
	graph Graph
}

// NewResolver returns a Resolver reading from the given graph.
func NewResolver(graph Graph) *Resolver {
	return &Resolver{graph: graph}
}

// EffectiveRoles returns the deduplicated union of the principal's legacy
// scalar role and its graph-relation role names, sorted. An unknown principal
// yields an empty set and no error.
func (r *Resolver) EffectiveRoles(ctx context.Context, principalID string) ([]string, error) {
	principal, err := r.graph.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	roles, err := r.graph.RolesOf(ctx, principalID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(roles)+1)
	if principal.Role != "" {
		set[principal.Role] = struct{}{}
	}
	for _, role := range roles {
		set[role.Name] = struct{}{}
	}

	return sortedKeys(set), nil
}

// EffectivePermissions returns the deduplicated permission names reachable
// through the principal's graph-relation roles, sorted. The legacy scalar
// role contributes nothing here. An unknown principal yields an empty set and
// no error.
func (r *Resolver) EffectivePermissions(ctx context.Context, principalID string) ([]string, error) {
	if _, err := r.graph.FindByID(ctx, principalID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	roles, err := r.graph.RolesOf(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}

	permissions, err := r.graph.PermissionsOfRoles(ctx, names)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(permissions))
	for _, permission := range permissions {
		set[permission.Name] = struct{}{}
	}

	return sortedKeys(set), nil
}

// HasRoles reports whether the principal holds every role in required.
// An empty required set is trivially satisfied.
func (r *Resolver) HasRoles(ctx context.Context, principalID string, required []string) (bool, error) {
	if len(required) == 0 {
		return true, nil
	}

	held, err := r.EffectiveRoles(ctx, principalID)
	if err != nil {
		return false, err
	}
	return containsAll(held, required), nil
}

// HasPermissions reports whether the principal holds every permission in
// required. An empty required set is trivially satisfied.
func (r *Resolver) HasPermissions(ctx context.Context, principalID string, required []string) (bool, error) {
	if len(required) == 0 {
		return true, nil
	}

	held, err := r.EffectivePermissions(ctx, principalID)
	if err != nil {
		return false, err
	}
	return containsAll(held, required), nil
}

func containsAll(held, required []string) bool {
	set := make(map[string]struct{}, len(held))
	for _, name := range held {
		set[name] = struct{}{}
	}
	for _, name := range required {
		if _, ok := set[name]; !ok {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
