package ticketauth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/tunatran99/ticketauth/directory"
)

var (
	testAccessSecret  = []byte("test-access-secret-0123456789abcdef")
	testRefreshSecret = []byte("test-refresh-secret-0123456789abcde")
)

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Token.AccessSecret = testAccessSecret
	cfg.Token.RefreshSecret = testRefreshSecret
	cfg.Password.Cost = bcrypt.MinCost
	return cfg
}

func newTestEngine(t *testing.T, dir directory.Directory) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(testConfig()).
		WithDirectory(dir).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func newThrottledEngine(t *testing.T, dir directory.Directory, maxAttempts int) (*Engine, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	cfg.RateLimit.MaxLoginAttempts = maxAttempts
	cfg.RateLimit.LoginCooldown = time.Minute

	engine, err := New().
		WithConfig(cfg).
		WithDirectory(dir).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr
}

func mustRegister(t *testing.T, engine *Engine, req RegisterRequest) *Principal {
	t.Helper()

	principal, err := engine.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("register %s: %v", req.Email, err)
	}
	return principal
}

// racingDirectory simulates a registration that loses the race between the
// uniqueness pre-checks and the insert: lookups see nothing, the insert hits
// the constraint.
type racingDirectory struct {
	*directory.Memory
	createErr error
}

func (d *racingDirectory) FindByEmail(context.Context, string) (directory.Principal, error) {
	return directory.Principal{}, directory.ErrNotFound
}

func (d *racingDirectory) FindByPhone(context.Context, string) (directory.Principal, error) {
	return directory.Principal{}, directory.ErrNotFound
}

func (d *racingDirectory) Create(context.Context, directory.CreateInput) (directory.Principal, error) {
	return directory.Principal{}, d.createErr
}
