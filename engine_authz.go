package ticketauth

import (
	"context"
	"strings"
)

// CheckRoles reports whether the principal holds every required role. The
// effective set is the union of the legacy scalar role and the role graph,
// re-read from the directory on every call.
func (e *Engine) CheckRoles(ctx context.Context, principalID string, required []string) (bool, error) {
	if e == nil || e.resolver == nil {
		return false, ErrEngineNotReady
	}
	return e.resolver.HasRoles(ctx, principalID, required)
}

// CheckPermissions reports whether the principal holds every required
// permission. Permissions flow only through the role graph.
func (e *Engine) CheckPermissions(ctx context.Context, principalID string, required []string) (bool, error) {
	if e == nil || e.resolver == nil {
		return false, ErrEngineNotReady
	}
	return e.resolver.HasPermissions(ctx, principalID, required)
}

// EffectiveRoles returns the principal's current resolved role set.
func (e *Engine) EffectiveRoles(ctx context.Context, principalID string) ([]string, error) {
	if e == nil || e.resolver == nil {
		return nil, ErrEngineNotReady
	}
	return e.resolver.EffectiveRoles(ctx, principalID)
}

// EffectivePermissions returns the principal's current resolved permission
// set.
func (e *Engine) EffectivePermissions(ctx context.Context, principalID string) ([]string, error) {
	if e == nil || e.resolver == nil {
		return nil, ErrEngineNotReady
	}
	return e.resolver.EffectivePermissions(ctx, principalID)
}

// Authorize is the request-time access decision. A zero requirement always
// allows. A declared requirement without an authenticated principal denies.
// Otherwise every listed role and permission must be held. Denial is
// [ErrPermissionDenied]; anything else is a directory infrastructure error.
func (e *Engine) Authorize(ctx context.Context, principalID string, req Requirement) error {
	if e == nil || e.resolver == nil {
		return ErrEngineNotReady
	}
	if req.IsZero() {
		return nil
	}
	if principalID == "" {
		e.metricInc(MetricAuthzDenied)
		return ErrPermissionDenied
	}

	if len(req.Roles) > 0 {
		ok, err := e.resolver.HasRoles(ctx, principalID, req.Roles)
		if err != nil {
			return err
		}
		if !ok {
			return e.deny(ctx, principalID, req)
		}
	}

	if len(req.Permissions) > 0 {
		ok, err := e.resolver.HasPermissions(ctx, principalID, req.Permissions)
		if err != nil {
			return err
		}
		if !ok {
			return e.deny(ctx, principalID, req)
		}
	}

	e.metricInc(MetricAuthzAllowed)
	return nil
}

func (e *Engine) deny(ctx context.Context, principalID string, req Requirement) error {
	e.metricInc(MetricAuthzDenied)
	metadata := make(map[string]string, 2)
	if len(req.Roles) > 0 {
		metadata["required_roles"] = strings.Join(req.Roles, ",")
	}
	if len(req.Permissions) > 0 {
		metadata["required_permissions"] = strings.Join(req.Permissions, ",")
	}
	e.emitAudit(ctx, AuditEvent{
		EventType:   AuditAccessDenied,
		PrincipalID: principalID,
		Error:       ErrPermissionDenied.Error(),
		Metadata:    metadata,
	})
	return ErrPermissionDenied
}
