// Package directory defines the principal directory: the single source of
// truth for principals, roles, and permissions that the ticketauth engine
// reads and writes through a narrow interface.
//
// Two reference implementations ship with the package: a mutex-guarded
// in-memory store for tests and examples, and a GORM/Postgres store for
// production deployments. Both enforce email and phone uniqueness atomically
// at insert time. The engine's pre-checks exist only to produce deterministic
// conflict ordering, never as the sole defense against duplicate races.
//
// # What this package must NOT do
//
//   - Hash, verify, or otherwise interpret password material.
//   - Make authorization decisions (that is rbac's job).
//   - Hide infrastructure failures behind ErrNotFound.
package directory
