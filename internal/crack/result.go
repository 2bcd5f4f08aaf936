package crack

import (
	"time"

	"github.com/RowanDark/0xcrack/internal/topk"
)

// Result is the outcome of one run.
type Result struct {
	ID         string           `json:"id"`
	Family     Family           `json:"family"`
	Ciphertext string           `json:"ciphertext"`
	Candidates []topk.Candidate `json:"candidates"`
	Evaluated  uint64           `json:"evaluated"`
	Duration   time.Duration    `json:"duration_ns"`
	StartedAt  time.Time        `json:"started_at"`

	// Exact is set when every word of the best candidate is a known word.
	Exact bool `json:"exact"`
}

// Best returns the top candidate.
func (r *Result) Best() (topk.Candidate, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return topk.Candidate{}, false
	}
	return r.Candidates[0], true
}
