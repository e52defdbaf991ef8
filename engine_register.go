package ticketauth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/tunatran99/ticketauth/directory"
)

// Register creates a new principal. Uniqueness is checked email-first,
// phone-second so conflicts surface deterministically; the directory's own
// unique constraints close the check-then-insert race, and a storage-level
// duplicate maps to the same conflict kinds.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*Principal, error) {
	if e == nil || e.dir == nil {
		return nil, ErrEngineNotReady
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	if email == "" {
		return nil, errors.New("ticketauth: email is required")
	}
	if req.Password == "" {
		return nil, errors.New("ticketauth: password is required")
	}

	if _, err := e.dir.FindByEmail(ctx, email); err == nil {
		e.metricInc(MetricRegisterConflict)
		e.emitAudit(ctx, AuditEvent{EventType: AuditRegister, Email: email, Error: ErrEmailExists.Error()})
		return nil, ErrEmailExists
	} else if !errors.Is(err, directory.ErrNotFound) {
		return nil, err
	}

	if phone != "" {
		if _, err := e.dir.FindByPhone(ctx, phone); err == nil {
			e.metricInc(MetricRegisterConflict)
			e.emitAudit(ctx, AuditEvent{EventType: AuditRegister, Email: email, Error: ErrPhoneExists.Error()})
			return nil, ErrPhoneExists
		} else if !errors.Is(err, directory.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = e.config.Account.DefaultRole
	}

	record, err := e.dir.Create(ctx, directory.CreateInput{
		ID:           newPrincipalID(),
		Email:        email,
		Phone:        phone,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         role,
		Status:       directory.StatusActive,
	})
	if err != nil {
		// A concurrent registration can win the race between the pre-checks
		// and the insert; the constraint violation keeps the same conflict
		// kind.
		switch {
		case errors.Is(err, directory.ErrDuplicateEmail):
			e.metricInc(MetricRegisterConflict)
			return nil, ErrEmailExists
		case errors.Is(err, directory.ErrDuplicatePhone):
			e.metricInc(MetricRegisterConflict)
			return nil, ErrPhoneExists
		}
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType:   AuditRegister,
		PrincipalID: record.ID,
		Email:       record.Email,
		Success:     true,
	})

	sanitized := sanitize(record)
	return &sanitized, nil
}

func newPrincipalID() string {
	return "usr_" + uuid.NewString()
}
