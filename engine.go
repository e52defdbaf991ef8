package ticketauth

import (
	"context"
	"time"

	"github.com/tunatran99/ticketauth/directory"
	"github.com/tunatran99/ticketauth/internal/rate"
	"github.com/tunatran99/ticketauth/password"
	"github.com/tunatran99/ticketauth/rbac"
	"github.com/tunatran99/ticketauth/token"
)

// Engine orchestrates the credential lifecycle and authorization flows.
// Immutable after [Builder.Build]; safe for concurrent use.
type Engine struct {
	config   Config
	dir      directory.Directory
	resolver *rbac.Resolver
	hasher   *password.Hasher
	tokens   *token.Manager
	limiter  *rate.Limiter
	audit    *auditDispatcher
	metrics  *Metrics
	now      func() time.Time

	// dummyHash is verified against on the unknown-identifier login path so
	// that path costs the same as a real password check.
	dummyHash string
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// VerifyAccess verifies a bearer access token and returns its claims. Every
// failure collapses to [ErrTokenInvalid].
func (e *Engine) VerifyAccess(tokenStr string) (*token.Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	claims, err := e.tokens.ParseAccess(tokenStr)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ListPrincipals returns sanitized views of every principal on record.
func (e *Engine) ListPrincipals(ctx context.Context) ([]Principal, error) {
	if e == nil || e.dir == nil {
		return nil, ErrEngineNotReady
	}
	records, err := e.dir.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Principal, 0, len(records))
	for _, record := range records {
		out = append(out, sanitize(record))
	}
	return out, nil
}

// AuditDropped reports how many audit events were shed under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns the current counter values.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now()
	}
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}
	e.audit.Emit(ctx, event)
}

func (e *Engine) issueTokens(record directory.Principal) (token.Pair, error) {
	return e.tokens.Issue(record.ID, record.Email, record.Role)
}

func sanitize(record directory.Principal) Principal {
	return Principal{
		ID:          record.ID,
		Email:       record.Email,
		Phone:       record.Phone,
		FullName:    record.FullName,
		Role:        record.Role,
		Status:      record.Status,
		LastLoginAt: record.LastLoginAt,
		CreatedAt:   record.CreatedAt,
	}
}
