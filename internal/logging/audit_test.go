package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestAuditLoggerEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("test", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	event := AuditEvent{
		EventType: EventCrackCompleted,
		RunID:     "run-1",
		Outcome:   OutcomeSuccess,
		Metadata:  map[string]any{"family": "caesar", "evaluated": 26},
	}
	if err := logger.Emit(event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}

	if decoded.Component != "test" {
		t.Fatalf("expected component 'test', got %q", decoded.Component)
	}
	if decoded.EventType != EventCrackCompleted {
		t.Fatalf("expected event type %q, got %q", EventCrackCompleted, decoded.EventType)
	}
	if decoded.Outcome != OutcomeSuccess || decoded.RunID != "run-1" {
		t.Fatalf("unexpected event %+v", decoded)
	}
	if decoded.Metadata["family"] != "caesar" {
		t.Fatalf("expected metadata to survive, got %v", decoded.Metadata)
	}
	if decoded.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestAuditLoggerWithComponentSharesOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	parent, err := NewAuditLogger("cli", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	child := parent.WithComponent("api")
	if err := child.Emit(AuditEvent{EventType: EventDecryptRequested}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := child.Close(); err != nil {
		t.Fatalf("child close: %v", err)
	}
	if err := parent.Emit(AuditEvent{EventType: EventCrackStarted}); err != nil {
		t.Fatalf("Emit after child close: %v", err)
	}

	var components []string
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var ev AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		components = append(components, ev.Component)
	}
	if len(components) != 2 || components[0] != "api" || components[1] != "cli" {
		t.Fatalf("unexpected components %v", components)
	}
}

func TestAuditLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := NewAuditLogger("test", WithoutStdout(), WithFile(path))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	if err := logger.Emit(AuditEvent{EventType: EventCrackFailed, Outcome: OutcomeFailure, Reason: "context canceled"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(data, []byte(`"reason":"context canceled"`)) {
		t.Fatalf("unexpected audit file %s", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestAuditLoggerOptionErrors(t *testing.T) {
	if _, err := NewAuditLogger("test", WithoutStdout()); err == nil {
		t.Error("expected error without writers")
	}
	if _, err := NewAuditLogger("test", WithWriter(nil)); err == nil {
		t.Error("expected error for nil writer")
	}
	if _, err := NewAuditLogger("test", WithFile("  ")); err == nil {
		t.Error("expected error for empty path")
	}
	var nilLogger *AuditLogger
	if err := nilLogger.Emit(AuditEvent{}); err == nil {
		t.Error("expected error from nil logger")
	}
	if err := NopAuditLogger().Emit(AuditEvent{EventType: EventCrackStarted}); err != nil {
		t.Errorf("nop logger: %v", err)
	}
}
