// Package rate provides the Redis-backed fixed-window counters behind the
// engine's optional login throttle.
//
// # Window semantics
//
// Fixed-window counters: INCR plus a conditional EXPIRE on the first hit.
// Key prefixes:
//   - tl:  login attempts per identifier
//   - tli: login attempts per client IP
//
// # What this package must NOT do
//
//   - Decide throttle policy (the engine owns thresholds and wiring).
//   - Be imported outside the ticketauth module.
package rate
