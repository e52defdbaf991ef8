package ticketauth

import (
	"context"
	"errors"
	"testing"

	"github.com/tunatran99/ticketauth/directory"
)

func TestRefreshIssuesNewAccessTokenOnly(t *testing.T) {
	engine := newTestEngine(t, directory.NewMemory())

	mustRegister(t, engine, RegisterRequest{
		Email:    "refresh@example.com",
		Password: "Secret123!",
	})
	login, err := engine.Login(context.Background(), "refresh@example.com", "Secret123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	result, err := engine.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if result.AccessToken == "" {
		t.Fatal("expected new access token")
	}
	if result.ExpiresIn <= 0 {
		t.Fatalf("expected positive expiry, got %d", result.ExpiresIn)
	}

	claims, err := engine.VerifyAccess(result.AccessToken)
	if err != nil {
		t.Fatalf("refreshed access token does not verify: %v", err)
	}
	if claims.PrincipalID != login.Principal.ID {
		t.Fatalf("claims subject mismatch: %q", claims.PrincipalID)
	}

	// No rotation: the original refresh token stays exchangeable.
	if _, err := engine.Refresh(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("refresh token must remain valid: %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	engine := newTestEngine(t, directory.NewMemory())

	mustRegister(t, engine, RegisterRequest{
		Email:    "crossed@example.com",
		Password: "Secret123!",
	})
	login, err := engine.Login(context.Background(), "crossed@example.com", "Secret123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	_, err = engine.Refresh(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("access token presented as refresh: expected ErrRefreshInvalid, got %v", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	engine := newTestEngine(t, directory.NewMemory())

	for _, raw := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := engine.Refresh(context.Background(), raw); !errors.Is(err, ErrRefreshInvalid) {
			t.Fatalf("token %q: expected ErrRefreshInvalid, got %v", raw, err)
		}
	}
}

func TestRefreshForVanishedPrincipal(t *testing.T) {
	dir := directory.NewMemory()
	engine := newTestEngine(t, dir)

	mustRegister(t, engine, RegisterRequest{
		Email:    "gone@example.com",
		Password: "Secret123!",
	})
	login, err := engine.Login(context.Background(), "gone@example.com", "Secret123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A second engine over an empty directory shares the signing secrets, so
	// the token itself verifies but its subject no longer exists.
	ghost := newTestEngine(t, directory.NewMemory())

	_, err = ghost.Refresh(context.Background(), login.RefreshToken)
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("vanished principal: expected ErrRefreshInvalid, got %v", err)
	}
}
