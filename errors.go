package ticketauth

import "errors"

// Sentinel failure kinds. Callers map these to transport-level responses;
// the engine never retries them because each is a deterministic business
// outcome, not a transient fault. Directory I/O failures are returned as-is,
// outside this taxonomy.
var (
	// ErrEngineNotReady is returned when an Engine method runs before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrEmailExists is the registration conflict for a taken email.
	ErrEmailExists = errors.New("email already exists")
	// ErrPhoneExists is the registration conflict for a taken phone.
	ErrPhoneExists = errors.New("phone already exists")
	// ErrInvalidCredentials is the single login failure. Unknown identifier
	// and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited is returned when the login throttle budget is
	// exhausted, before any credential work happens.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRefreshInvalid covers every refresh failure: expired, forged,
	// malformed, or principal gone after a valid token.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrTokenInvalid is the single access-token verification failure.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrCurrentPasswordIncorrect is the change-password verification failure.
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	// ErrUnauthorized is returned when an authenticated flow cannot resolve
	// its principal.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPrincipalNotFound is returned by ForgotPassword only. That flow
	// intentionally reveals account existence; no other flow does.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrPermissionDenied is the Access Guard denial.
	ErrPermissionDenied = errors.New("permission denied")
)
