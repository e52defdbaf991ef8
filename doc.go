// Package ticketauth is the identity-and-access core of the bus ticket
// booking backend: credential lifecycle (register, login, refresh, password
// change, federated login) and live authorization resolution (roles and
// fine-grained permissions) behind one engine.
//
// The package is designed for concurrent request handlers: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. The only shared state is the principal directory, which
// provides its own concurrency safety.
//
// # Architecture boundaries
//
// ticketauth is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors, and value types. Callers own HTTP routing, request
// validation, and status-code mapping; this core guarantees only stable
// failure kinds. Storage lives behind the directory.Directory interface.
//
// # What this package must NOT do
//
//   - Leak password hashes: every Principal returned by the engine is a
//     sanitized view.
//   - Reveal which check failed on login or refresh. Unknown identifier and
//     wrong password collapse to one outcome, as do expired and forged
//     tokens.
//   - Cache authorization results. Every check re-reads the directory so a
//     revocation is effective on the next call.
package ticketauth
