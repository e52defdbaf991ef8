package ticketauth

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tunatran99/ticketauth/directory"
)

func newAuditedEngine(t *testing.T, dir directory.Directory, sink AuditSink) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(testConfig()).
		WithDirectory(dir).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func waitForEvent(t *testing.T, events <-chan AuditEvent, eventType string) AuditEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if event.EventType == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("no %q event observed", eventType)
		}
	}
}

func TestAuditEventsFlowToSink(t *testing.T) {
	sink := NewChannelSink(32)
	engine := newAuditedEngine(t, directory.NewMemory(), sink)
	ctx := WithClientIP(context.Background(), "203.0.113.9")

	registered, err := engine.Register(ctx, RegisterRequest{
		Email:    "audited@example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	event := waitForEvent(t, sink.Events(), AuditRegister)
	if !event.Success {
		t.Fatalf("expected success event, got %+v", event)
	}
	if event.PrincipalID != registered.ID {
		t.Fatalf("principal mismatch: %q", event.PrincipalID)
	}
	if event.IP != "203.0.113.9" {
		t.Fatalf("client ip not propagated: %q", event.IP)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("timestamp not stamped")
	}

	if _, err := engine.Login(ctx, "audited@example.com", "WrongPass1!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	event = waitForEvent(t, sink.Events(), AuditLogin)
	if event.Success {
		t.Fatalf("expected failure event, got %+v", event)
	}
	if event.Error != ErrInvalidCredentials.Error() {
		t.Fatalf("unexpected error field: %q", event.Error)
	}
}

func TestAuditDeniedEventCarriesRequirement(t *testing.T) {
	sink := NewChannelSink(32)
	dir := directory.NewMemory()
	engine := newAuditedEngine(t, dir, sink)

	rider := mustRegister(t, engine, RegisterRequest{
		Email:    "denied@example.com",
		Password: "Secret123!",
	})

	err := engine.Authorize(context.Background(), rider.ID, Requirement{Roles: []string{"admin"}})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	event := waitForEvent(t, sink.Events(), AuditAccessDenied)
	if event.Metadata["required_roles"] != "admin" {
		t.Fatalf("requirement missing from event: %+v", event.Metadata)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)
	engine := newAuditedEngine(t, directory.NewMemory(), sink)

	mustRegister(t, engine, RegisterRequest{Email: "a@example.com", Password: "Secret123!"})
	mustRegister(t, engine, RegisterRequest{Email: "b@example.com", Password: "Secret123!"})

	// Close drains the dispatcher queue into the writer.
	engine.Close()

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		lines++
		var event AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		if event.EventType != AuditRegister {
			t.Fatalf("unexpected event type: %q", event.EventType)
		}
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}
}

func TestAuditDropsUnderBackpressure(t *testing.T) {
	// A sink that blocks forever forces the single-slot buffer to fill.
	blocked := make(chan struct{})
	sink := blockingSink{release: blocked}

	cfg := testConfig()
	cfg.Audit.BufferSize = 1
	cfg.Audit.DropIfFull = true

	dispatcher := newAuditDispatcher(cfg.Audit, sink)
	defer func() {
		close(blocked)
		dispatcher.Close()
	}()

	for i := 0; i < 50; i++ {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: AuditLogin})
	}

	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped events under backpressure")
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Emit(context.Context, AuditEvent) {
	<-s.release
}

func TestDisabledAuditIsInert(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = false

	engine, err := New().
		WithConfig(cfg).
		WithDirectory(directory.NewMemory()).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	mustRegister(t, engine, RegisterRequest{Email: "quiet@example.com", Password: "Secret123!"})
	if engine.AuditDropped() != 0 {
		t.Fatal("disabled audit must not count drops")
	}
}
