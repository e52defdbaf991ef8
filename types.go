package ticketauth

import "time"

// Principal is the sanitized view of a directory record. It never carries
// password material; the raw record stays inside the engine boundary.
type Principal struct {
	ID          string
	Email       string
	Phone       string
	FullName    string
	Role        string // legacy scalar role
	Status      string
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// RegisterRequest carries the registration fields. Role defaults to the
// configured default role (passenger) when empty.
type RegisterRequest struct {
	Email    string
	Password string
	Phone    string
	FullName string
	Role     string
}

// ExternalIdentity is a federated identity whose email the provider has
// already verified. The engine never checks a password for this path.
type ExternalIdentity struct {
	Provider string
	Email    string
	FullName string
}

// LoginResult is returned by Login and FederatedLogin.
type LoginResult struct {
	Principal    Principal
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in whole seconds.
	ExpiresIn int
}

// RefreshResult is returned by Refresh. It carries a new access token only;
// the refresh token is never rotated.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int
}

// Requirement declares what a protected operation demands: every listed role
// and every listed permission must be held (AND semantics). The zero value
// declares nothing and always allows.
type Requirement struct {
	Roles       []string
	Permissions []string
}

// IsZero reports whether the requirement declares nothing.
func (r Requirement) IsZero() bool {
	return len(r.Roles) == 0 && len(r.Permissions) == 0
}
