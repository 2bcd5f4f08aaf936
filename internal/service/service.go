// Package service ties the crack engine to run history, the audit trail and
// logging. The CLI, HTTP API and gRPC server all go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/RowanDark/0xcrack/internal/cipher"
	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/history"
	"github.com/RowanDark/0xcrack/internal/logging"
	"github.com/RowanDark/0xcrack/internal/textprep"
)

// ErrInvalidRequest is returned when a request fails validation.
var ErrInvalidRequest = errors.New("invalid request")

// ErrHistoryDisabled is returned by history queries when no store is
// attached.
var ErrHistoryDisabled = errors.New("run history is disabled")

// MaxCiphertextLength bounds request size in characters. Keyed families
// decrypt the full text once per key.
const MaxCiphertextLength = 64 * 1024

// textLimitTag is the validator tag enforcing MaxCiphertextLength.
const textLimitTag = "textlimit"

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(textLimitTag, func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= MaxCiphertextLength
	})
	return v
}

// CrackRequest asks for a brute-force run.
type CrackRequest struct {
	Ciphertext string `json:"ciphertext" validate:"required,textlimit"`
	Family     string `json:"family"`
	TopK       int    `json:"top_k" validate:"min=0,max=1000"`
	Fold       bool   `json:"fold"`
}

// TransformRequest runs one operation, or a pipeline of them, with known
// keys.
type TransformRequest struct {
	Operation string                   `json:"operation" validate:"required_without=Pipeline"`
	Config    map[string]interface{}   `json:"config,omitempty"`
	Pipeline  []cipher.OperationConfig `json:"pipeline,omitempty" validate:"omitempty,dive"`
	Input     string                   `json:"input" validate:"textlimit"`
}

// CipherInfo describes one catalog entry.
type CipherInfo struct {
	Number     int      `json:"number"`
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	KeySpace   uint64   `json:"key_space"`
	Operations []string `json:"operations"`
}

// Service is safe for concurrent use.
type Service struct {
	engine   *crack.Engine
	store    *history.Store
	audit    *logging.AuditLogger
	logger   *slog.Logger
	detector cipher.Detector
	validate *validator.Validate
}

// Option configures a Service.
type Option func(*Service)

// WithHistory persists every successful run to store.
func WithHistory(store *history.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithAudit emits lifecycle events to audit.
func WithAudit(audit *logging.AuditLogger) Option {
	return func(s *Service) {
		if audit != nil {
			s.audit = audit
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps engine.
func New(engine *crack.Engine, opts ...Option) (*Service, error) {
	if engine == nil {
		return nil, errors.New("service: engine is required")
	}
	s := &Service{
		engine:   engine,
		audit:    logging.NopAuditLogger(),
		logger:   logging.Discard(),
		detector: cipher.NewSmartDetector(cipher.WithReference(engine.Scorer().Reference())),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Engine returns the underlying engine.
func (s *Service) Engine() *crack.Engine {
	return s.engine
}

func (s *Service) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Crack runs a brute-force search and records it.
func (s *Service) Crack(ctx context.Context, req CrackRequest) (*crack.Result, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	family, err := crack.ParseFamily(req.Family)
	if err != nil {
		return nil, err
	}
	text, err := textprep.Prepare(req.Ciphertext, req.Fold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	s.emit(logging.AuditEvent{
		EventType: logging.EventCrackStarted,
		Outcome:   logging.OutcomeInfo,
		Metadata:  map[string]any{"family": string(family), "ciphertext_length": len(text), "top_k": req.TopK},
	})

	result, err := s.engine.RunWithTopK(ctx, text, family, req.TopK)
	if err != nil {
		s.emit(logging.AuditEvent{
			EventType: logging.EventCrackFailed,
			Outcome:   logging.OutcomeFailure,
			Reason:    err.Error(),
			Metadata:  map[string]any{"family": string(family)},
		})
		return nil, err
	}

	meta := map[string]any{
		"family":      string(family),
		"evaluated":   result.Evaluated,
		"duration_ms": result.Duration.Milliseconds(),
		"exact":       result.Exact,
	}
	if best, ok := result.Best(); ok {
		meta["best_cipher"] = string(best.Cipher)
		meta["best_params"] = best.Params
		meta["best_score"] = best.Score
	}
	s.emit(logging.AuditEvent{
		EventType: logging.EventCrackCompleted,
		RunID:     result.ID,
		Outcome:   logging.OutcomeSuccess,
		Metadata:  meta,
	})

	if s.store != nil {
		// A run that cannot be recorded is still returned.
		if err := s.store.Save(ctx, result); err != nil {
			s.logger.Warn("save run history", "run_id", result.ID, "error", err)
		}
	}
	return result, nil
}

// Transform applies known-key operations to the input.
func (s *Service) Transform(ctx context.Context, req TransformRequest) (string, error) {
	if err := s.check(req); err != nil {
		return "", err
	}
	steps := req.Pipeline
	if len(steps) == 0 {
		steps = []cipher.OperationConfig{{Name: req.Operation, Parameters: req.Config}}
	}
	names := make([]string, len(steps))
	for i, step := range steps {
		names[i] = step.Name
	}

	p := &cipher.Pipeline{Operations: steps}
	out, err := p.Execute(ctx, []byte(req.Input))

	event := logging.AuditEvent{
		EventType: logging.EventDecryptRequested,
		Outcome:   logging.OutcomeSuccess,
		Metadata:  map[string]any{"operations": strings.Join(names, "|"), "input_length": len(req.Input)},
	}
	if err != nil {
		event.Outcome = logging.OutcomeFailure
		event.Reason = err.Error()
	}
	s.emit(event)

	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Detect profiles input and suggests families to try first.
func (s *Service) Detect(ctx context.Context, input string) ([]cipher.DetectionResult, error) {
	if input == "" {
		return nil, fmt.Errorf("%w: input is required", ErrInvalidRequest)
	}
	results, err := s.detector.Detect(ctx, []byte(input))
	s.emit(logging.AuditEvent{
		EventType: logging.EventDetectRequested,
		Outcome:   logging.OutcomeInfo,
		Metadata:  map[string]any{"input_length": len(input), "suggestions": len(results)},
	})
	return results, err
}

// Ciphers lists the catalog in menu order with each family's key space size
// under the engine's bounds.
func (s *Service) Ciphers() []CipherInfo {
	kinds := crack.FamilyAll.Kinds()
	out := make([]CipherInfo, 0, len(kinds))
	for _, kind := range kinds {
		family := crack.FamilyOf(kind)
		size, _ := s.engine.SpaceSize(family)
		var ops []string
		for _, op := range cipher.ListOperationsByKind(kind) {
			ops = append(ops, op.Name())
		}
		out = append(out, CipherInfo{
			Number:     family.Number(),
			Name:       string(kind),
			Label:      kind.Label(),
			KeySpace:   size,
			Operations: ops,
		})
	}
	return out
}

// Runs lists recorded runs, newest first.
func (s *Service) Runs(ctx context.Context, opts history.ListOptions) ([]history.Summary, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	return s.store.List(ctx, opts)
}

// Run loads one recorded run.
func (s *Service) Run(ctx context.Context, id string) (*crack.Result, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	return s.store.Get(ctx, id)
}

// DeleteRun removes one recorded run and its candidates.
func (s *Service) DeleteRun(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrHistoryDisabled
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) emit(event logging.AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.audit.Emit(event); err != nil {
		s.logger.Warn("audit emit failed", "event", string(event.EventType), "error", err)
	}
}
