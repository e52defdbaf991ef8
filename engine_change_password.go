package ticketauth

import (
	"context"
	"errors"

	"github.com/tunatran99/ticketauth/directory"
)

// ChangePassword replaces the principal's password after verifying the
// current one. The caller supplies principalID from an already-verified
// access token. Existing access tokens stay valid until their own expiry;
// nothing is re-issued here.
func (e *Engine) ChangePassword(ctx context.Context, principalID, currentPassword, newPassword string) error {
	if e == nil || e.dir == nil {
		return ErrEngineNotReady
	}

	record, err := e.dir.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}

	if !e.hasher.Verify(currentPassword, record.PasswordHash) {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType:   AuditPasswordChange,
			PrincipalID: record.ID,
			Error:       ErrCurrentPasswordIncorrect.Error(),
		})
		return ErrCurrentPasswordIncorrect
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := e.dir.UpdatePassword(ctx, record.ID, hash); err != nil {
		return err
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType:   AuditPasswordChange,
		PrincipalID: record.ID,
		Success:     true,
	})

	return nil
}
