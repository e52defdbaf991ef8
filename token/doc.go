// Package token issues and verifies the signed, time-bound access and
// refresh tokens carried by ticketauth sessions.
//
// Both kinds share one claim set (principal id, email, legacy role) but are
// signed with distinct HS256 secrets, so compromise of the refresh secret
// cannot mint access tokens and vice versa. Permissions are never embedded in
// claims; they are resolved live by the rbac package so a revocation takes
// effect on the next check.
//
// Every verification failure collapses to [ErrInvalid]. Callers cannot tell
// an expired token from a forged one, which keeps token probing blind.
//
// # What this package must NOT do
//
//   - Touch the principal directory or any other I/O.
//   - Distinguish failure causes in its public API.
package token
