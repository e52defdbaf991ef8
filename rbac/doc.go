// Package rbac resolves a principal's effective roles and permissions on
// demand and evaluates required-set checks against them.
//
// Effective roles are the union of the legacy scalar role column and the
// graph-relation roles; the scalar is a guaranteed minimum role only.
// Effective permissions flow exclusively through the role graph, so the
// scalar role never grants permissions by name coincidence.
//
// Nothing is cached. Every check re-reads current state from the directory,
// which makes a revocation effective on the very next check at the cost of a
// directory round-trip. A cache without a per-principal invalidation path
// would reintroduce stale authorization; do not add one here.
//
// Required-set checks use AND semantics: the principal must hold every listed
// role or permission. An unknown principal has empty effective sets and fails
// every non-empty check without error.
package rbac
