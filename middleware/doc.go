// Package middleware exposes net/http adapters for access-token authentication
// and role or permission gated routes built on top of ticketauth.Engine.
//
// # Guards
//
//   - [Authenticate] verifies the bearer access token and injects the
//     verified claims plus the principal ID into the request context.
//   - [RequireRoles] and [RequirePermissions] wrap an authenticated route
//     and call Engine.Authorize before admitting the request.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication or authorization logic itself: token verification
// is delegated to Engine.VerifyAccess and access decisions to
// Engine.Authorize.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Query the principal directory (Engine handles I/O).
//   - Make access decisions beyond pass/reject from Engine.Authorize.
package middleware
