package ticketauth

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tunatran99/ticketauth/directory"
)

func seedAuthzFixture(t *testing.T, dir *directory.Memory) {
	t.Helper()
	ctx := context.Background()

	for _, role := range []string{"admin", "passenger", "support"} {
		if err := dir.UpsertRole(ctx, role, role+" role"); err != nil {
			t.Fatalf("seed role %s: %v", role, err)
		}
	}
	for _, perm := range []string{"user.read", "ticket.read", "ticket.write", "dashboard.view"} {
		if err := dir.UpsertPermission(ctx, perm, "Permission "+perm); err != nil {
			t.Fatalf("seed permission %s: %v", perm, err)
		}
	}
	if err := dir.GrantPermissions(ctx, "admin", []string{"user.read", "ticket.read", "ticket.write", "dashboard.view"}); err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	if err := dir.GrantPermissions(ctx, "support", []string{"ticket.read"}); err != nil {
		t.Fatalf("grant support: %v", err)
	}
}

func TestAuthorizeZeroRequirementAllows(t *testing.T) {
	engine := newTestEngine(t, directory.NewMemory())

	// Nothing declared, nothing checked, even without a principal.
	if err := engine.Authorize(context.Background(), "", Requirement{}); err != nil {
		t.Fatalf("zero requirement must allow: %v", err)
	}
}

func TestAuthorizeRequiresPrincipal(t *testing.T) {
	engine := newTestEngine(t, directory.NewMemory())

	err := engine.Authorize(context.Background(), "", Requirement{Roles: []string{"admin"}})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestAuthorizeRolesAndPermissions(t *testing.T) {
	dir := directory.NewMemory()
	seedAuthzFixture(t, dir)
	engine := newTestEngine(t, dir)
	ctx := context.Background()

	agent := mustRegister(t, engine, RegisterRequest{
		Email:    "agent@example.com",
		Password: "Secret123!",
		Role:     "passenger",
	})
	if err := dir.AssignRole(ctx, agent.ID, "support"); err != nil {
		t.Fatalf("assign role: %v", err)
	}

	for _, tc := range []struct {
		name string
		req  Requirement
		want error
	}{
		{"held role", Requirement{Roles: []string{"support"}}, nil},
		{"scalar role counts", Requirement{Roles: []string{"passenger"}}, nil},
		{"both held roles", Requirement{Roles: []string{"passenger", "support"}}, nil},
		{"missing role", Requirement{Roles: []string{"admin"}}, ErrPermissionDenied},
		{"one missing denies all", Requirement{Roles: []string{"support", "admin"}}, ErrPermissionDenied},
		{"held permission", Requirement{Permissions: []string{"ticket.read"}}, nil},
		{"missing permission", Requirement{Permissions: []string{"dashboard.view"}}, ErrPermissionDenied},
		{"role and permission", Requirement{Roles: []string{"support"}, Permissions: []string{"ticket.read"}}, nil},
		{"role held permission missing", Requirement{Roles: []string{"support"}, Permissions: []string{"ticket.write"}}, ErrPermissionDenied},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := engine.Authorize(ctx, agent.ID, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestScalarRoleGrantsNoPermissions(t *testing.T) {
	dir := directory.NewMemory()
	seedAuthzFixture(t, dir)
	engine := newTestEngine(t, dir)
	ctx := context.Background()

	// Scalar "admin" without the graph relation: the role check passes but
	// no permissions flow from it.
	shadow := mustRegister(t, engine, RegisterRequest{
		Email:    "shadow@example.com",
		Password: "Secret123!",
		Role:     "admin",
	})

	ok, err := engine.CheckRoles(ctx, shadow.ID, []string{"admin"})
	if err != nil || !ok {
		t.Fatalf("scalar admin role not honored: ok=%v err=%v", ok, err)
	}

	perms, err := engine.EffectivePermissions(ctx, shadow.ID)
	if err != nil {
		t.Fatalf("effective permissions: %v", err)
	}
	if len(perms) != 0 {
		t.Fatalf("scalar role must grant no permissions, got %v", perms)
	}

	if err := engine.Authorize(ctx, shadow.ID, Requirement{Permissions: []string{"dashboard.view"}}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestEffectiveRolesUnionDeduplicates(t *testing.T) {
	dir := directory.NewMemory()
	seedAuthzFixture(t, dir)
	engine := newTestEngine(t, dir)
	ctx := context.Background()

	dual := mustRegister(t, engine, RegisterRequest{
		Email:    "dual@example.com",
		Password: "Secret123!",
		Role:     "support",
	})
	if err := dir.AssignRole(ctx, dual.ID, "support"); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if err := dir.AssignRole(ctx, dual.ID, "passenger"); err != nil {
		t.Fatalf("assign role: %v", err)
	}

	roles, err := engine.EffectiveRoles(ctx, dual.ID)
	if err != nil {
		t.Fatalf("effective roles: %v", err)
	}
	if !reflect.DeepEqual(roles, []string{"passenger", "support"}) {
		t.Fatalf("unexpected role set: %v", roles)
	}
}

func TestAuthorizeUnknownPrincipalDenies(t *testing.T) {
	dir := directory.NewMemory()
	seedAuthzFixture(t, dir)
	engine := newTestEngine(t, dir)

	err := engine.Authorize(context.Background(), "usr_nobody", Requirement{Roles: []string{"passenger"}})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("unknown principal must deny, not error: got %v", err)
	}
}

func TestAuthorizeSeesGrantsImmediately(t *testing.T) {
	dir := directory.NewMemory()
	seedAuthzFixture(t, dir)
	engine := newTestEngine(t, dir)
	ctx := context.Background()

	rider := mustRegister(t, engine, RegisterRequest{
		Email:    "late@example.com",
		Password: "Secret123!",
	})

	req := Requirement{Permissions: []string{"ticket.read"}}
	if err := engine.Authorize(ctx, rider.ID, req); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected denial before grant, got %v", err)
	}

	if err := dir.AssignRole(ctx, rider.ID, "support"); err != nil {
		t.Fatalf("assign role: %v", err)
	}

	// No caching layer: the very next decision reflects the new grant.
	if err := engine.Authorize(ctx, rider.ID, req); err != nil {
		t.Fatalf("grant not visible immediately: %v", err)
	}
}
