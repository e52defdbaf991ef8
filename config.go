package ticketauth

import (
	"time"

	"github.com/tunatran99/ticketauth/password"
)

// Config defines engine behavior. It is copied on Build; mutating it
// afterwards has no effect.
type Config struct {
	Token     TokenConfig
	Password  PasswordConfig
	Account   AccountConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// TokenConfig carries signing material and lifetimes. Access and refresh
// secrets must differ; Build fails otherwise.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// PasswordConfig tunes the credential hasher. Zero Cost selects the default
// work factor (bcrypt cost 10).
type PasswordConfig struct {
	Cost int
}

// AccountConfig carries registration defaults.
type AccountConfig struct {
	DefaultRole string
}

// RateLimitConfig tunes the optional login throttle. It only takes effect
// when a Redis client is supplied via [Builder.WithRedis].
type RateLimitConfig struct {
	MaxLoginAttempts int
	LoginCooldown    time.Duration
	ThrottlePerIP    bool
}

// AuditConfig controls the asynchronous audit pipeline.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking flows when the buffer is
	// full. Dropped counts are visible through [Engine.AuditDropped].
	DropIfFull bool
}

// MetricsConfig controls the in-process counter registry.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "ticketauth",
		},
		Password: PasswordConfig{
			Cost: password.DefaultCost,
		},
		Account: AccountConfig{
			DefaultRole: "passenger",
		},
		RateLimit: RateLimitConfig{
			MaxLoginAttempts: 5,
			LoginCooldown:    15 * time.Minute,
			ThrottlePerIP:    true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.AccessSecret = append([]byte(nil), cfg.Token.AccessSecret...)
	out.Token.RefreshSecret = append([]byte(nil), cfg.Token.RefreshSecret...)
	return out
}
