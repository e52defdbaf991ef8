// Package internaldefs holds the shared metric export definitions consumed by
// the Prometheus and OTel exporter packages. It is not part of the public
// API surface; exporter packages are.
package internaldefs

import (
	ticketauth "github.com/tunatran99/ticketauth"
)

// CounterDef binds one engine counter to its stable export name and help
// text. The order of CounterDefs is the order exporters render in.
type CounterDef struct {
	ID   ticketauth.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: ticketauth.MetricRegisterSuccess, Name: "ticketauth_register_success_total", Help: "Successful registrations."},
	{ID: ticketauth.MetricRegisterConflict, Name: "ticketauth_register_conflict_total", Help: "Registrations rejected for a taken email or phone."},
	{ID: ticketauth.MetricLoginSuccess, Name: "ticketauth_login_success_total", Help: "Successful login attempts."},
	{ID: ticketauth.MetricLoginFailure, Name: "ticketauth_login_failure_total", Help: "Failed login attempts."},
	{ID: ticketauth.MetricLoginRateLimited, Name: "ticketauth_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: ticketauth.MetricFederatedLoginSuccess, Name: "ticketauth_federated_login_success_total", Help: "Successful federated logins."},
	{ID: ticketauth.MetricRefreshSuccess, Name: "ticketauth_refresh_success_total", Help: "Successful refresh operations."},
	{ID: ticketauth.MetricRefreshFailure, Name: "ticketauth_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: ticketauth.MetricPasswordChangeSuccess, Name: "ticketauth_password_change_success_total", Help: "Successful password changes."},
	{ID: ticketauth.MetricPasswordChangeFailure, Name: "ticketauth_password_change_failure_total", Help: "Password change attempts with a wrong current password."},
	{ID: ticketauth.MetricForgotPasswordRequests, Name: "ticketauth_forgot_password_requests_total", Help: "Password reset initiations."},
	{ID: ticketauth.MetricAuthzAllowed, Name: "ticketauth_authz_allowed_total", Help: "Authorization decisions that allowed the request."},
	{ID: ticketauth.MetricAuthzDenied, Name: "ticketauth_authz_denied_total", Help: "Authorization decisions that denied the request."},
}

// AuditDroppedName is the export name of the audit backpressure counter; it
// lives outside the snapshot and is read through AuditDropped.
const AuditDroppedName = "ticketauth_audit_dropped_total"

// AuditDroppedHelp documents the audit backpressure counter.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
