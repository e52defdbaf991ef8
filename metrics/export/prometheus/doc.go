// Package prometheus renders ticketauth engine counters in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [ticketauth.Engine] and exposes an
// [net/http.Handler] that renders every engine counter plus the audit
// backpressure counter. Counter names are prefixed ticketauth_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the
//     Handler.
//   - Mutate engine state.
package prometheus
