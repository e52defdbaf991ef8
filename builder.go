package ticketauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tunatran99/ticketauth/directory"
	"github.com/tunatran99/ticketauth/internal/rate"
	"github.com/tunatran99/ticketauth/password"
	"github.com/tunatran99/ticketauth/rbac"
	"github.com/tunatran99/ticketauth/token"
)

// dummyCredential feeds the pre-computed hash used to equalize the
// unknown-identifier login path. Its value is irrelevant; only its cost is.
const dummyCredential = "ticketauth.dummy.credential.v1"

// Builder assembles an Engine. Construction is allocation-only until Build,
// which validates everything fail-fast and performs one hash to prime the
// dummy credential.
type Builder struct {
	config Config
	dir    directory.Directory
	redis  redis.UniversalClient
	sink   AuditSink
	now    func() time.Time
	built  bool
}

// New returns a Builder loaded with defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
		now:    time.Now,
	}
}

// WithConfig replaces the default configuration. Secrets are copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithDirectory sets the principal directory. Required.
func (b *Builder) WithDirectory(dir directory.Directory) *Builder {
	b.dir = dir
	return b
}

// WithRedis enables the login throttle backed by the given client. Without
// it, login attempts are not throttled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the destination for audit events. Defaults to a no-op
// sink when auditing is enabled without one.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithClock overrides the engine clock. Intended for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build validates the configuration and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("ticketauth: builder already used")
	}
	if b.dir == nil {
		return nil, errors.New("ticketauth: directory is required")
	}
	if b.config.Account.DefaultRole == "" {
		return nil, errors.New("ticketauth: default role must not be empty")
	}

	hasher, err := password.NewHasher(password.Config{Cost: b.config.Password.Cost})
	if err != nil {
		return nil, fmt.Errorf("ticketauth: %w", err)
	}

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  b.config.Token.AccessSecret,
		RefreshSecret: b.config.Token.RefreshSecret,
		AccessTTL:     b.config.Token.AccessTTL,
		RefreshTTL:    b.config.Token.RefreshTTL,
		Issuer:        b.config.Token.Issuer,
		Leeway:        b.config.Token.Leeway,
		Now:           b.now,
	})
	if err != nil {
		return nil, fmt.Errorf("ticketauth: %w", err)
	}

	var limiter *rate.Limiter
	if b.redis != nil {
		if b.config.RateLimit.MaxLoginAttempts <= 0 || b.config.RateLimit.LoginCooldown <= 0 {
			return nil, errors.New("ticketauth: invalid rate limit configuration")
		}
		limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle: b.config.RateLimit.ThrottlePerIP,
			MaxLoginAttempts: b.config.RateLimit.MaxLoginAttempts,
			LoginCooldown:    b.config.RateLimit.LoginCooldown,
		})
	}

	dummyHash, err := hasher.Hash(dummyCredential)
	if err != nil {
		return nil, fmt.Errorf("ticketauth: %w", err)
	}

	engine := &Engine{
		config:    b.config,
		dir:       b.dir,
		resolver:  rbac.NewResolver(b.dir),
		hasher:    hasher,
		tokens:    tokens,
		limiter:   limiter,
		audit:     newAuditDispatcher(b.config.Audit, b.sink),
		metrics:   newMetrics(b.config.Metrics),
		now:       b.now,
		dummyHash: dummyHash,
	}

	b.built = true
	return engine, nil
}
