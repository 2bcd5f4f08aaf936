// Package crack brute-forces ciphertexts over lazily enumerated key spaces and
// keeps the best scoring decryptions.
package crack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/RowanDark/0xcrack/internal/cipher"
	"github.com/RowanDark/0xcrack/internal/scorer"
	"github.com/RowanDark/0xcrack/internal/topk"
)

// DefaultChunkSize is the number of keys a worker takes at a time, and the
// interval at which a sequential search checks for cancellation.
const DefaultChunkSize = 4096

// Config controls a search. Zero values select the defaults.
type Config struct {
	TopK          int
	Workers       int
	PreviewLength int
	ChunkSize     uint64
	Bounds        Bounds
}

// DefaultConfig returns top 5, one worker per CPU, 80 character previews and
// DefaultBounds.
func DefaultConfig() Config {
	return Config{
		TopK:          topk.DefaultK,
		Workers:       runtime.NumCPU(),
		PreviewLength: topk.DefaultPreviewLength,
		ChunkSize:     DefaultChunkSize,
		Bounds:        DefaultBounds(),
	}
}

// Observer receives run lifecycle events, typically for metrics.
type Observer interface {
	RunStarted(family string)
	FamilySearched(kind string, evaluated uint64, elapsed time.Duration)
	RunFinished(family string, evaluated uint64, elapsed time.Duration, err error)
}

// Engine runs brute-force searches. It holds no per-run state and is safe
// for concurrent use.
type Engine struct {
	scorer   *scorer.Scorer
	cfg      Config
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver attaches a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an engine around sc.
func New(sc *scorer.Scorer, cfg Config, opts ...Option) (*Engine, error) {
	if sc == nil {
		return nil, errors.New("crack: scorer is required")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = topk.DefaultK
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = topk.DefaultPreviewLength
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Bounds.PlayfairKeys == nil && cfg.Bounds.MaxRails == 0 {
		cfg.Bounds = DefaultBounds()
	}
	if err := cfg.Bounds.Validate(); err != nil {
		return nil, fmt.Errorf("crack: %w", err)
	}

	e := &Engine{
		scorer: sc,
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Scorer returns the scorer candidates are ranked with.
func (e *Engine) Scorer() *scorer.Scorer {
	return e.scorer
}

// SpaceSize returns the number of keys a run over family would evaluate.
func (e *Engine) SpaceSize(family Family) (uint64, error) {
	if !family.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	var total uint64
	for _, kind := range family.Kinds() {
		space, err := Space(kind, e.cfg.Bounds)
		if err != nil {
			return 0, err
		}
		total += space.Size()
	}
	return total, nil
}

// Run searches every key of family against ciphertext and returns the best
// candidates, highest score first. With FamilyAll every kind shares one
// selector, so the result is the global top K. A cancelled context stops
// the search between chunks and returns the context's error.
func (e *Engine) Run(ctx context.Context, ciphertext string, family Family) (*Result, error) {
	return e.RunWithTopK(ctx, ciphertext, family, e.cfg.TopK)
}

// RunWithTopK is Run with a per-call selector capacity.
func (e *Engine) RunWithTopK(ctx context.Context, ciphertext string, family Family, k int) (*Result, error) {
	if !family.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	if k <= 0 {
		k = e.cfg.TopK
	}

	result := &Result{
		ID:         uuid.NewString(),
		Family:     family,
		Ciphertext: ciphertext,
		StartedAt:  e.now().UTC(),
	}
	logger := e.logger.With("run_id", result.ID, "family", string(family))
	if e.observer != nil {
		e.observer.RunStarted(string(family))
	}
	logger.Debug("crack started", "ciphertext_length", len(ciphertext), "top_k", k, "workers", e.cfg.Workers)

	sel := topk.New(k)
	var runErr error
	for _, kind := range family.Kinds() {
		n, err := e.searchKind(ctx, logger, ciphertext, kind, familyOrder(kind), sel)
		result.Evaluated += n
		if err != nil {
			runErr = err
			break
		}
	}

	result.Duration = e.now().UTC().Sub(result.StartedAt)
	if e.observer != nil {
		e.observer.RunFinished(string(family), result.Evaluated, result.Duration, runErr)
	}
	if runErr != nil {
		logger.Warn("crack aborted", "evaluated", result.Evaluated, "error", runErr)
		return nil, runErr
	}

	result.Candidates = sel.Sorted()
	if best, ok := result.Best(); ok {
		result.Exact = e.scorer.Breakdown(best.Plaintext).Validity == 100
		logger.Info("crack completed",
			"evaluated", result.Evaluated,
			"duration", result.Duration,
			"best_cipher", best.CipherType(),
			"best_params", best.Params,
			"best_score", best.Score,
		)
	}
	return result, nil
}

// familyOrder places kind's ordinals in a band of their own, keyed by
// catalog position, so candidate order is unique across a shared selector.
func familyOrder(kind cipher.Kind) uint64 {
	return uint64(FamilyOf(kind).Number()) << 40
}

func (e *Engine) searchKind(ctx context.Context, logger *slog.Logger, ciphertext string, kind cipher.Kind, base uint64, sel *topk.Selector) (uint64, error) {
	space, err := Space(kind, e.cfg.Bounds)
	if err != nil {
		return 0, err
	}

	start := e.now()
	size := space.Size()
	scan := func(c chunk, into *topk.Selector) {
		e.scan(ciphertext, space, c, base, into)
	}

	var evaluated uint64
	if e.cfg.Workers <= 1 || size <= e.cfg.ChunkSize {
		evaluated, err = e.searchSequential(ctx, size, scan, sel)
	} else {
		evaluated, err = e.searchParallel(ctx, size, scan, sel)
	}

	elapsed := e.now().Sub(start)
	if e.observer != nil {
		e.observer.FamilySearched(string(kind), evaluated, elapsed)
	}
	logger.Debug("family searched", "cipher", kind.Label(), "keys", evaluated, "duration", elapsed)
	return evaluated, err
}

func (e *Engine) searchSequential(ctx context.Context, size uint64, scan func(chunk, *topk.Selector), sel *topk.Selector) (uint64, error) {
	var evaluated uint64
	for lo := uint64(0); lo < size; lo += e.cfg.ChunkSize {
		if err := ctx.Err(); err != nil {
			return evaluated, err
		}
		hi := min(lo+e.cfg.ChunkSize, size)
		scan(chunk{lo: lo, hi: hi}, sel)
		evaluated += hi - lo
	}
	return evaluated, nil
}

func (e *Engine) searchParallel(ctx context.Context, size uint64, scan func(chunk, *topk.Selector), sel *topk.Selector) (uint64, error) {
	workers := e.cfg.Workers
	if chunks := int((size + e.cfg.ChunkSize - 1) / e.cfg.ChunkSize); chunks < workers {
		workers = chunks
	}

	pool := newWorkerPool(ctx, workers, sel.Cap(), scan)
	pool.start()

	var submitErr error
	for lo := uint64(0); lo < size; lo += e.cfg.ChunkSize {
		if submitErr = pool.submit(chunk{lo: lo, hi: min(lo+e.cfg.ChunkSize, size)}); submitErr != nil {
			break
		}
	}
	evaluated := pool.stop(sel)

	if err := ctx.Err(); err != nil {
		return evaluated, err
	}
	return evaluated, submitErr
}

// scan evaluates the keys in c. The selector pre-check keeps the common
// case, a key that cannot place, free of candidate construction.
func (e *Engine) scan(ciphertext string, space Keyspace, c chunk, base uint64, sel *topk.Selector) {
	kind := space.Kind()
	for i := c.lo; i < c.hi; i++ {
		key := space.At(i)
		plain, err := cipher.Decrypt(kind, ciphertext, key)
		if err != nil {
			// Keyspaces only yield keys of their own kind.
			panic(fmt.Sprintf("crack: %s keyspace produced %T: %v", kind, key, err))
		}
		score := e.scorer.Score(plain)
		order := base + i
		if sel.Admits(score, order) {
			sel.Insert(topk.NewCandidate(score, kind, key, plain, e.cfg.PreviewLength, order))
		}
	}
}
