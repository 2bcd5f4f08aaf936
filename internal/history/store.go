// Package history persists crack runs and their ranked candidates in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/RowanDark/0xcrack/internal/cipher"
	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/topk"
)

// ErrNotFound is returned when no run has the requested ID.
var ErrNotFound = errors.New("run not found")

// timeLayout has fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Summary is a run without its candidate list.
type Summary struct {
	ID          string        `json:"id"`
	Family      crack.Family  `json:"family"`
	Ciphertext  string        `json:"ciphertext"`
	Evaluated   uint64        `json:"evaluated"`
	Duration    time.Duration `json:"duration_ns"`
	StartedAt   time.Time     `json:"started_at"`
	Exact       bool          `json:"exact"`
	BestCipher  cipher.Kind   `json:"best_cipher,omitempty"`
	BestParams  string        `json:"best_params,omitempty"`
	BestScore   int           `json:"best_score"`
	BestPreview string        `json:"best_preview,omitempty"`
}

// ListOptions filters List. A zero Limit returns every run.
type ListOptions struct {
	Family crack.Family
	Limit  int
}

// Store is a SQLite-backed run history. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Parent directories are
// created as needed.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	// Pragmas in the DSN apply to every pooled connection, not just the
	// first one database/sql happens to hand out.
	dsn := path + "?_pragma=foreign_keys(1)"
	if !memory {
		dsn = "file:" + dsn + "&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		family TEXT NOT NULL,
		ciphertext TEXT NOT NULL,
		evaluated INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		exact BOOLEAN NOT NULL
	);

	CREATE TABLE IF NOT EXISTS candidates (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		score INTEGER NOT NULL,
		cipher TEXT NOT NULL,
		params TEXT NOT NULL,
		preview TEXT NOT NULL,
		plaintext TEXT NOT NULL,
		PRIMARY KEY (run_id, rank)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_family ON runs(family);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores r and its candidates atomically. Saving an ID twice replaces
// the earlier run.
func (s *Store) Save(ctx context.Context, r *crack.Result) error {
	if r == nil || r.ID == "" {
		return errors.New("history: result has no id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteRun(ctx, tx, r.ID); err != nil {
		return fmt.Errorf("replace run: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, family, ciphertext, evaluated, duration_ns, started_at, exact)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Family), r.Ciphertext, int64(r.Evaluated), int64(r.Duration),
		r.StartedAt.UTC().Format(timeLayout), r.Exact,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candidates (run_id, rank, score, cipher, params, preview, plaintext)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()
	for i, c := range r.Candidates {
		if _, err := stmt.ExecContext(ctx, r.ID, i, c.Score, string(c.Cipher), c.Params, c.Preview, c.Plaintext); err != nil {
			return fmt.Errorf("insert candidate %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Get loads the run with id, candidates in rank order.
func (s *Store) Get(ctx context.Context, id string) (*crack.Result, error) {
	var (
		r         crack.Result
		family    string
		evaluated int64
		duration  int64
		started   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, family, ciphertext, evaluated, duration_ns, started_at, exact
		FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &family, &r.Ciphertext, &evaluated, &duration, &started, &r.Exact)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	r.Family = crack.Family(family)
	r.Evaluated = uint64(evaluated)
	r.Duration = time.Duration(duration)
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT score, cipher, params, preview, plaintext
		FROM candidates WHERE run_id = ? ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	r.Candidates = []topk.Candidate{}
	for rows.Next() {
		var c topk.Candidate
		var kind string
		if err := rows.Scan(&c.Score, &kind, &c.Params, &c.Preview, &c.Plaintext); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Cipher = cipher.Kind(kind)
		r.Candidates = append(r.Candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return &r, nil
}

// List returns run summaries, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	query := `
		SELECT r.id, r.family, r.ciphertext, r.evaluated, r.duration_ns, r.started_at, r.exact,
		       COALESCE(c.cipher, ''), COALESCE(c.params, ''), COALESCE(c.score, 0), COALESCE(c.preview, '')
		FROM runs r
		LEFT JOIN candidates c ON c.run_id = r.id AND c.rank = 0`
	var args []any
	if opts.Family != "" {
		query += ` WHERE r.family = ?`
		args = append(args, string(opts.Family))
	}
	query += ` ORDER BY r.started_at DESC, r.id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum       Summary
			family    string
			kind      string
			evaluated int64
			duration  int64
			started   string
		)
		if err := rows.Scan(&sum.ID, &family, &sum.Ciphertext, &evaluated, &duration, &started, &sum.Exact,
			&kind, &sum.BestParams, &sum.BestScore, &sum.BestPreview); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.Family = crack.Family(family)
		sum.BestCipher = cipher.Kind(kind)
		sum.Evaluated = uint64(evaluated)
		sum.Duration = time.Duration(duration)
		if sum.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Delete removes the run with id and its candidates.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := deleteRunRows(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func deleteRun(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := deleteRunRows(ctx, tx, id)
	return err
}

// deleteRunRows removes candidates before their run so no orphans remain
// even on a connection opened without foreign key enforcement. It reports
// how many runs were removed.
func deleteRunRows(ctx context.Context, tx *sql.Tx, id string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE run_id = ?`, id); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
