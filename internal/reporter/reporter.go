// Package reporter renders crack results and run history as text, JSON,
// JSON lines, Markdown, CSV or DOCX.
package reporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/topk"
)

// Format names an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatJSONL    Format = "jsonl"
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatDOCX     Format = "docx"
)

// ErrBinaryFormat is returned when a format that needs a file is asked to
// render to a stream.
var ErrBinaryFormat = errors.New("format must be written to a file")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatJSONL, FormatMarkdown, FormatCSV, FormatDOCX}
}

// ParseFormat accepts a format name or common alias ("markdown", "txt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// FormatFromPath guesses a format from a file extension, defaulting to text.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatText
	}
	return f
}

// Report is the serialised form of a run shared by the structured formats.
type Report struct {
	ID         string           `json:"id"`
	Family     string           `json:"family"`
	Ciphertext string           `json:"ciphertext"`
	Evaluated  uint64           `json:"evaluated"`
	DurationMS float64          `json:"duration_ms"`
	StartedAt  time.Time        `json:"started_at"`
	Exact      bool             `json:"exact"`
	Best       *topk.Candidate  `json:"best,omitempty"`
	Candidates []topk.Candidate `json:"candidates"`
}

// NewReport flattens r.
func NewReport(r *crack.Result) Report {
	rep := Report{
		ID:         r.ID,
		Family:     string(r.Family),
		Ciphertext: r.Ciphertext,
		Evaluated:  r.Evaluated,
		DurationMS: float64(r.Duration) / float64(time.Millisecond),
		StartedAt:  r.StartedAt,
		Exact:      r.Exact,
		Candidates: r.Candidates,
	}
	if rep.Candidates == nil {
		rep.Candidates = []topk.Candidate{}
	}
	if best, ok := r.Best(); ok {
		rep.Best = &best
	}
	return rep
}

// Render writes r to w in format. DOCX cannot be streamed; use WriteFile.
func Render(w io.Writer, format Format, r *crack.Result) error {
	if r == nil {
		return errors.New("reporter: nil result")
	}
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatJSONL:
		return WriteJSONL(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatDOCX:
		return fmt.Errorf("%w: %s", ErrBinaryFormat, format)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile renders r to path, creating parent directories.
func WriteFile(path string, format Format, r *crack.Result) error {
	if r == nil {
		return errors.New("reporter: nil result")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if format == FormatDOCX {
		return WriteDOCX(path, r)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Render(f, format, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
