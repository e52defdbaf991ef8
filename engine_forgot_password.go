package ticketauth

import (
	"context"
	"errors"
	"strings"

	"github.com/tunatran99/ticketauth/directory"
)

// ForgotPassword confirms that a reset can be initiated for the email.
// Delivery of the reset itself belongs to an external collaborator; this
// flow only performs the existence check. It is the one flow that reveals
// whether an account exists, a documented tradeoff of the reset UX.
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	if e == nil || e.dir == nil {
		return ErrEngineNotReady
	}

	email = strings.ToLower(strings.TrimSpace(email))

	record, err := e.dir.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			e.emitAudit(ctx, AuditEvent{
				EventType: AuditPasswordForgot,
				Email:     email,
				Error:     ErrPrincipalNotFound.Error(),
			})
			return ErrPrincipalNotFound
		}
		return err
	}

	e.metricInc(MetricForgotPasswordRequests)
	e.emitAudit(ctx, AuditEvent{
		EventType:   AuditPasswordForgot,
		PrincipalID: record.ID,
		Email:       email,
		Success:     true,
	})

	return nil
}
