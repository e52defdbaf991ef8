package ticketauth

import (
	"context"
	"errors"
	"strings"

	"github.com/tunatran99/ticketauth/directory"
	"github.com/tunatran99/ticketauth/internal/rate"
)

// federatedPlaceholderHash marks accounts created through federated login
// that have no local password. It is not valid bcrypt material, so password
// verification against it always fails.
const federatedPlaceholderHash = "!federated-no-local-password"

// Login authenticates by email-or-phone identifier and password. Unknown
// identifier and wrong password both return [ErrInvalidCredentials]; the
// unknown path still pays one hash verification so the two are not separable
// by timing either.
func (e *Engine) Login(ctx context.Context, identifier, plaintext string) (*LoginResult, error) {
	if e == nil || e.dir == nil {
		return nil, ErrEngineNotReady
	}

	// Emails are stored lowercased; folding the identifier keeps the
	// register and login paths symmetric. Phone digits are unaffected.
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	ip := clientIPFromContext(ctx)

	if e.limiter != nil {
		if err := e.limiter.CheckLogin(ctx, identifier, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, AuditEvent{EventType: AuditLogin, Error: ErrLoginRateLimited.Error()})
				return nil, ErrLoginRateLimited
			}
			return nil, err
		}
	}

	record, err := e.dir.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			e.hasher.Verify(plaintext, e.dummyHash)
			return nil, e.failLogin(ctx, identifier, ip, "")
		}
		return nil, err
	}

	if !e.hasher.Verify(plaintext, record.PasswordHash) {
		return nil, e.failLogin(ctx, identifier, ip, record.ID)
	}

	if e.limiter != nil {
		_ = e.limiter.ResetLogin(ctx, identifier, ip)
	}

	// Best effort: a failed stamp must not fail the login.
	_ = e.dir.RecordLogin(ctx, record.ID, e.now())

	pair, err := e.issueTokens(record)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType:   AuditLogin,
		PrincipalID: record.ID,
		Email:       record.Email,
		Success:     true,
	})

	return &LoginResult{
		Principal:    sanitize(record),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// failLogin records the failed attempt and returns the uniform credential
// failure. Throttle exhaustion surfaces on the next attempt's pre-check, so
// this response stays identical to every other failed login.
func (e *Engine) failLogin(ctx context.Context, identifier, ip, principalID string) error {
	if e.limiter != nil {
		if err := e.limiter.IncrementLogin(ctx, identifier, ip); err != nil && !errors.Is(err, rate.ErrRateLimited) {
			return err
		}
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, AuditEvent{
		EventType:   AuditLogin,
		PrincipalID: principalID,
		Error:       ErrInvalidCredentials.Error(),
	})

	return ErrInvalidCredentials
}

// FederatedLogin signs in a principal whose identity an external provider has
// already verified. The principal is created on first sight with a
// placeholder hash; no password is ever checked on this path.
func (e *Engine) FederatedLogin(ctx context.Context, identity ExternalIdentity) (*LoginResult, error) {
	if e == nil || e.dir == nil {
		return nil, ErrEngineNotReady
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, errors.New("ticketauth: federated identity has no email")
	}

	record, err := e.dir.FindByEmail(ctx, email)
	if errors.Is(err, directory.ErrNotFound) {
		record, err = e.dir.Create(ctx, directory.CreateInput{
			ID:           newPrincipalID(),
			Email:        email,
			FullName:     strings.TrimSpace(identity.FullName),
			PasswordHash: federatedPlaceholderHash,
			Role:         e.config.Account.DefaultRole,
			Status:       directory.StatusActive,
		})
		if errors.Is(err, directory.ErrDuplicateEmail) {
			// Lost a first-login race; the winner's record is ours to use.
			record, err = e.dir.FindByEmail(ctx, email)
		}
	}
	if err != nil {
		return nil, err
	}

	_ = e.dir.RecordLogin(ctx, record.ID, e.now())

	pair, err := e.issueTokens(record)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricFederatedLoginSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType:   AuditFederatedLogin,
		PrincipalID: record.ID,
		Email:       record.Email,
		Success:     true,
		Metadata:    map[string]string{"provider": identity.Provider},
	})

	return &LoginResult{
		Principal:    sanitize(record),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
