package reporter

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/topk"
)

// RenderJSON returns the indented JSON report for r.
func RenderJSON(r *crack.Result) ([]byte, error) {
	data, err := json.MarshalIndent(NewReport(r), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteJSON writes RenderJSON's output to w.
func WriteJSON(w io.Writer, r *crack.Result) error {
	data, err := RenderJSON(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Line is one JSON lines record: a candidate tagged with its run and rank.
type Line struct {
	RunID  string `json:"run_id"`
	Family string `json:"family"`
	Rank   int    `json:"rank"`
	topk.Candidate
}

// WriteJSONL writes one line per candidate, best first.
func WriteJSONL(w io.Writer, r *crack.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, c := range r.Candidates {
		if err := enc.Encode(Line{RunID: r.ID, Family: string(r.Family), Rank: i + 1, Candidate: c}); err != nil {
			return fmt.Errorf("encode candidate %d: %w", i+1, err)
		}
	}
	return nil
}

// ReadJSONL decodes lines written by WriteJSONL. Blank lines are skipped.
func ReadJSONL(rd io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var out []Line
	n := 0
	for scanner.Scan() {
		n++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line Line
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, fmt.Errorf("decode line %d: %w", n, err)
		}
		if line.RunID == "" {
			return nil, fmt.Errorf("line %d: %w", n, errors.New("missing run_id"))
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jsonl: %w", err)
	}
	return out, nil
}
