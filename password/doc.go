// Package password provides one-way credential hashing and constant-time
// verification over bcrypt.
//
// Verification always goes through bcrypt's own comparison, never a direct
// string compare, so it cannot short-circuit on the first mismatched byte.
// Malformed or foreign hash material verifies as false rather than erroring;
// that property is what makes the federated-login placeholder hash safe.
//
// # What this package must NOT do
//
//   - Persist anything.
//   - Return the reason a verification failed.
package password
