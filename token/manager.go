package token

import (
	"bytes"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid is the single failure outcome for token verification. Bad
// signature, wrong secret, expiry, and malformed input are indistinguishable.
var ErrInvalid = errors.New("token: invalid token")

const minSecretBytes = 32

// Config holds signing material and lifetimes for both token kinds.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	// Leeway is the clock-skew tolerance applied during verification.
	// Zero by default: a token checked at its exact expiry instant is invalid.
	Leeway time.Duration
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Claims is the minimal signed payload shared by access and refresh tokens.
type Claims struct {
	PrincipalID string `json:"userId"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// Pair is the result of issuing both token kinds at once.
type Pair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in whole seconds.
	ExpiresIn int
}

// Manager signs and verifies tokens. Immutable after construction and safe
// for concurrent use.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager validates the configuration and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) < minSecretBytes {
		return nil, errors.New("token: access secret must be at least 32 bytes")
	}
	if len(cfg.RefreshSecret) < minSecretBytes {
		return nil, errors.New("token: refresh secret must be at least 32 bytes")
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("token: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token: invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("token: invalid leeway configuration")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{config: cfg, now: now}, nil
}

// Issue creates an access/refresh token pair for the principal.
func (m *Manager) Issue(principalID, email, role string) (Pair, error) {
	access, expiresIn, err := m.IssueAccess(principalID, email, role)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := m.sign(principalID, email, role, m.config.RefreshSecret, m.config.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}

// IssueAccess creates an access token only, with the standard expiry policy.
// Used by the refresh flow, which never rotates the refresh token.
func (m *Manager) IssueAccess(principalID, email, role string) (string, int, error) {
	access, err := m.sign(principalID, email, role, m.config.AccessSecret, m.config.AccessTTL)
	if err != nil {
		return "", 0, err
	}
	return access, int(m.config.AccessTTL / time.Second), nil
}

// ParseAccess verifies an access token and returns its claims.
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.config.AccessSecret)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (m *Manager) ParseRefresh(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.config.RefreshSecret)
}

func (m *Manager) sign(principalID, email, role string, secret []byte, ttl time.Duration) (string, error) {
	issuedAt := m.now()
	claims := Claims{
		PrincipalID: principalID,
		Email:       email,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    m.config.Issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *Manager) parse(tokenStr string, secret []byte) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, options...)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.PrincipalID == "" {
		return nil, ErrInvalid
	}

	return claims, nil
}
