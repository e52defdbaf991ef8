package rbac

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tunatran99/ticketauth/directory"
)

func seededGraph(t *testing.T) *directory.Memory {
	t.Helper()
	ctx := context.Background()
	mem := directory.NewMemory()

	for _, role := range []string{"admin", "passenger", "support"} {
		if err := mem.UpsertRole(ctx, role, role+" role"); err != nil {
			t.Fatalf("UpsertRole: %v", err)
		}
	}
	for _, perm := range []string{"user.read", "user.write", "ticket.read", "ticket.write", "dashboard.view"} {
		if err := mem.UpsertPermission(ctx, perm, ""); err != nil {
			t.Fatalf("UpsertPermission: %v", err)
		}
	}
	if err := mem.GrantPermissions(ctx, "admin", []string{"user.read", "user.write", "ticket.read", "ticket.write", "dashboard.view"}); err != nil {
		t.Fatalf("GrantPermissions: %v", err)
	}
	if err := mem.GrantPermissions(ctx, "support", []string{"ticket.read"}); err != nil {
		t.Fatalf("GrantPermissions: %v", err)
	}

	return mem
}

func createPrincipal(t *testing.T, mem *directory.Memory, id, email, legacyRole string, graphRoles ...string) {
	t.Helper()
	ctx := context.Background()
	if _, err := mem.Create(ctx, directory.CreateInput{
		ID:           id,
		Email:        email,
		FullName:     "Test Principal",
		PasswordHash: "irrelevant",
		Role:         legacyRole,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, role := range graphRoles {
		if err := mem.AssignRole(ctx, id, role); err != nil {
			t.Fatalf("AssignRole: %v", err)
		}
	}
}

func TestEffectiveRolesIncludesLegacyScalar(t *testing.T) {
	mem := seededGraph(t)
	createPrincipal(t, mem, "usr_1", "a@x.com", "passenger")

	resolver := NewResolver(mem)
	roles, err := resolver.EffectiveRoles(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("EffectiveRoles: %v", err)
	}
	if !reflect.DeepEqual(roles, []string{"passenger"}) {
		t.Fatalf("roles = %v", roles)
	}
}

func TestEffectiveRolesUnionsScalarAndGraph(t *testing.T) {
	mem := seededGraph(t)
	createPrincipal(t, mem, "usr_1", "a@x.com", "passenger", "support", "passenger")

	resolver := NewResolver(mem)
	roles, err := resolver.EffectiveRoles(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("EffectiveRoles: %v", err)
	}
	if !reflect.DeepEqual(roles, []string{"passenger", "support"}) {
		t.Fatalf("roles = %v", roles)
	}
}

func TestScalarRoleGrantsNoPermissions(t *testing.T) {
	mem := seededGraph(t)
	// Legacy scalar says admin, but no graph relation backs it up.
	createPrincipal(t, mem, "usr_1", "a@x.com", "admin")

	resolver := NewResolver(mem)
	perms, err := resolver.EffectivePermissions(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("EffectivePermissions: %v", err)
	}
	if len(perms) != 0 {
		t.Fatalf("perms = %v, want empty", perms)
	}
}

func TestPermissionRequiresGrantingRole(t *testing.T) {
	mem := seededGraph(t)
	// dashboard.view is granted only to admin; support holds ticket.read.
	createPrincipal(t, mem, "usr_1", "a@x.com", "support", "support")

	resolver := NewResolver(mem)
	ok, err := resolver.HasPermissions(context.Background(), "usr_1", []string{"dashboard.view"})
	if err != nil {
		t.Fatalf("HasPermissions: %v", err)
	}
	if ok {
		t.Fatal("support principal passed an admin-only permission check")
	}

	ok, err = resolver.HasPermissions(context.Background(), "usr_1", []string{"ticket.read"})
	if err != nil {
		t.Fatalf("HasPermissions: %v", err)
	}
	if !ok {
		t.Fatal("support principal failed its own permission check")
	}
}

func TestHasRolesRequiresAll(t *testing.T) {
	mem := seededGraph(t)
	createPrincipal(t, mem, "usr_1", "a@x.com", "passenger", "support")

	resolver := NewResolver(mem)
	ctx := context.Background()

	cases := []struct {
		required []string
		want     bool
	}{
		{nil, true},
		{[]string{"passenger"}, true},
		{[]string{"support"}, true},
		{[]string{"passenger", "support"}, true},
		{[]string{"passenger", "admin"}, false},
		{[]string{"admin"}, false},
	}
	for _, tc := range cases {
		got, err := resolver.HasRoles(ctx, "usr_1", tc.required)
		if err != nil {
			t.Fatalf("HasRoles(%v): %v", tc.required, err)
		}
		if got != tc.want {
			t.Fatalf("HasRoles(%v) = %v, want %v", tc.required, got, tc.want)
		}
	}
}

func TestUnknownPrincipalIsDenyNotError(t *testing.T) {
	mem := seededGraph(t)
	resolver := NewResolver(mem)
	ctx := context.Background()

	roles, err := resolver.EffectiveRoles(ctx, "usr_missing")
	if err != nil || len(roles) != 0 {
		t.Fatalf("EffectiveRoles = %v, %v", roles, err)
	}
	perms, err := resolver.EffectivePermissions(ctx, "usr_missing")
	if err != nil || len(perms) != 0 {
		t.Fatalf("EffectivePermissions = %v, %v", perms, err)
	}
	for _, check := range []func() (bool, error){
		func() (bool, error) { return resolver.HasRoles(ctx, "usr_missing", []string{"passenger"}) },
		func() (bool, error) { return resolver.HasPermissions(ctx, "usr_missing", []string{"ticket.read"}) },
	} {
		ok, err := check()
		if err != nil {
			t.Fatalf("check errored for unknown principal: %v", err)
		}
		if ok {
			t.Fatal("unknown principal passed a check")
		}
	}
}

func TestPermissionGrantIsMonotonic(t *testing.T) {
	mem := seededGraph(t)
	createPrincipal(t, mem, "usr_1", "a@x.com", "support", "support")

	resolver := NewResolver(mem)
	ctx := context.Background()
	required := []string{"ticket.read", "ticket.write"}

	ok, err := resolver.HasPermissions(ctx, "usr_1", required)
	if err != nil {
		t.Fatalf("HasPermissions: %v", err)
	}
	if ok {
		t.Fatal("check passed before the grant")
	}

	// Granting ticket.write to a held role flips the prior false to true.
	if err := mem.GrantPermissions(ctx, "support", []string{"ticket.write"}); err != nil {
		t.Fatalf("GrantPermissions: %v", err)
	}
	ok, err = resolver.HasPermissions(ctx, "usr_1", required)
	if err != nil {
		t.Fatalf("HasPermissions: %v", err)
	}
	if !ok {
		t.Fatal("check still fails after the grant; no caching should be in play")
	}

	// Previously-true subsets stay true.
	ok, err = resolver.HasPermissions(ctx, "usr_1", []string{"ticket.read"})
	if err != nil || !ok {
		t.Fatalf("subset check regressed: %v %v", ok, err)
	}
}

type failingGraph struct {
	directory.Memory
}

func (f *failingGraph) FindByID(context.Context, string) (directory.Principal, error) {
	return directory.Principal{}, errors.New("connection refused")
}

func TestInfrastructureErrorsPropagate(t *testing.T) {
	resolver := NewResolver(&failingGraph{})
	if _, err := resolver.HasRoles(context.Background(), "usr_1", []string{"admin"}); err == nil {
		t.Fatal("expected infrastructure error to propagate")
	}
}
