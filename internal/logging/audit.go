package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// EventType names an audit event.
type EventType string

const (
	EventCrackStarted     EventType = "crack_started"
	EventCrackCompleted   EventType = "crack_completed"
	EventCrackFailed      EventType = "crack_failed"
	EventDecryptRequested EventType = "decrypt_requested"
	EventDetectRequested  EventType = "detect_requested"
)

// Outcome records whether the audited action succeeded.
type Outcome string

const (
	OutcomeInfo    Outcome = "info"
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// AuditEvent is one JSON line of the audit trail.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	RunID     string         `json:"run_id,omitempty"`
	EventType EventType      `json:"event_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Outcome   Outcome        `json:"outcome,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// Option configures NewAuditLogger.
type Option func(*sinks) error

// sinks collects the audit outputs. Stdout is included unless WithoutStdout
// is given.
type sinks struct {
	stdout  bool
	writers []io.Writer
	files   []io.Closer
}

// WithWriter adds w to the audit outputs.
func WithWriter(w io.Writer) Option {
	return func(s *sinks) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		s.writers = append(s.writers, w)
		return nil
	}
}

// WithFile appends events to the file at path, creating it with owner-only
// permissions.
func WithFile(path string) Option {
	return func(s *sinks) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open audit file: %w", err)
		}
		s.writers = append(s.writers, f)
		s.files = append(s.files, f)
		return nil
	}
}

// WithoutStdout keeps events off stdout.
func WithoutStdout() Option {
	return func(s *sinks) error {
		s.stdout = false
		return nil
	}
}

// trail is the encoder shared by a logger and its WithComponent children.
type trail struct {
	mu    sync.Mutex
	enc   *json.Encoder
	files []io.Closer
	now   func() time.Time
}

// AuditLogger writes AuditEvents as JSON lines. Loggers derived with
// WithComponent share the parent's outputs; only the parent closes them.
type AuditLogger struct {
	component string
	trail     *trail
	root      bool
}

// NewAuditLogger builds a logger that stamps events with component.
func NewAuditLogger(component string, opts ...Option) (*AuditLogger, error) {
	s := &sinks{stdout: true}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			_ = closeAll(s.files)
			return nil, err
		}
	}
	outputs := s.writers
	if s.stdout {
		outputs = append([]io.Writer{os.Stdout}, outputs...)
	}
	if len(outputs) == 0 {
		return nil, errors.New("no writers configured for audit logger")
	}

	enc := json.NewEncoder(io.MultiWriter(outputs...))
	enc.SetEscapeHTML(false)
	return &AuditLogger{
		component: component,
		trail:     &trail{enc: enc, files: s.files, now: time.Now},
		root:      true,
	}, nil
}

// NopAuditLogger discards every event.
func NopAuditLogger() *AuditLogger {
	logger, _ := NewAuditLogger("nop", WithoutStdout(), WithWriter(io.Discard))
	return logger
}

// Close closes files opened by WithFile. It is a no-op on derived loggers.
func (l *AuditLogger) Close() error {
	if l == nil || l.trail == nil || !l.root {
		return nil
	}
	l.trail.mu.Lock()
	defer l.trail.mu.Unlock()
	err := closeAll(l.trail.files)
	l.trail.files = nil
	return err
}

func closeAll(files []io.Closer) error {
	var errs []error
	for _, f := range files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit writes event, stamping the time and component when unset.
func (l *AuditLogger) Emit(event AuditEvent) error {
	if l == nil || l.trail == nil {
		return errors.New("nil audit logger")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.trail.now()
	}
	event.Timestamp = event.Timestamp.UTC()
	if event.Component == "" {
		event.Component = l.component
	}

	l.trail.mu.Lock()
	defer l.trail.mu.Unlock()
	if err := l.trail.enc.Encode(event); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// WithComponent returns a logger writing to the same outputs under another
// component name.
func (l *AuditLogger) WithComponent(component string) *AuditLogger {
	if l == nil || l.trail == nil {
		return nil
	}
	return &AuditLogger{component: component, trail: l.trail}
}
