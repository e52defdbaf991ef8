package ticketauth

import (
	"context"
	"errors"

	"github.com/tunatran99/ticketauth/directory"
)

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated. A bad token and a principal that
// vanished after issuance both return [ErrRefreshInvalid]; the caller must
// not learn which layer failed.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if e == nil || e.dir == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditEvent{EventType: AuditRefresh, Error: ErrRefreshInvalid.Error()})
		return nil, ErrRefreshInvalid
	}

	record, err := e.dir.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, AuditEvent{
				EventType:   AuditRefresh,
				PrincipalID: claims.PrincipalID,
				Error:       ErrRefreshInvalid.Error(),
			})
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	accessToken, expiresIn, err := e.tokens.IssueAccess(record.ID, record.Email, record.Role)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType:   AuditRefresh,
		PrincipalID: record.ID,
		Success:     true,
	})

	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}, nil
}
