// Package topk keeps the best K scored candidates seen during a search in
// fixed memory.
package topk

import (
	"container/heap"
	"sort"

	"github.com/RowanDark/0xcrack/internal/cipher"
)

// DefaultK is the selector capacity used when none is configured.
const DefaultK = 5

// DefaultPreviewLength is the preview size in characters.
const DefaultPreviewLength = 80

// Candidate is one scored decryption attempt.
type Candidate struct {
	Score     int         `json:"score"`
	Cipher    cipher.Kind `json:"cipher"`
	Params    string      `json:"params"`
	Preview   string      `json:"preview"`
	Plaintext string      `json:"plaintext"`

	// Order is the candidate's position in the enumeration. Among equal
	// scores, the lower Order ranks higher.
	Order uint64 `json:"-"`
}

// NewCandidate builds a candidate with a preview of at most previewLen
// characters.
func NewCandidate(score int, kind cipher.Kind, key cipher.Key, plaintext string, previewLen int, order uint64) Candidate {
	params := kind.Label()
	if key != nil {
		params = key.String()
	}
	return Candidate{
		Score:     score,
		Cipher:    kind,
		Params:    params,
		Preview:   Preview(plaintext, previewLen),
		Plaintext: plaintext,
		Order:     order,
	}
}

// CipherType is the display label of the candidate's family.
func (c Candidate) CipherType() string {
	return c.Cipher.Label()
}

// Preview returns the first n characters of text.
func Preview(text string, n int) string {
	if n <= 0 {
		n = DefaultPreviewLength
	}
	if len(text) <= n {
		return text
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

// outranks reports whether a ranks strictly above b.
func outranks(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Order < b.Order
}

type minHeap []Candidate

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return outranks(h[j], h[i]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(Candidate)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// Selector holds at most K candidates, evicting the lowest when a better one
// arrives. A Selector is not safe for concurrent use; parallel searches give
// each worker its own and Merge them.
type Selector struct {
	k    int
	heap minHeap
}

// New returns an empty selector of capacity k, or DefaultK when k <= 0.
func New(k int) *Selector {
	if k <= 0 {
		k = DefaultK
	}
	return &Selector{k: k, heap: make(minHeap, 0, k)}
}

// Cap returns the capacity K.
func (s *Selector) Cap() int { return s.k }

// Len returns the number of candidates held.
func (s *Selector) Len() int { return len(s.heap) }

// Admits reports whether a candidate with this score and order would be
// kept. It lets callers skip building candidates that Insert would discard.
func (s *Selector) Admits(score int, order uint64) bool {
	if len(s.heap) < s.k {
		return true
	}
	return outranks(Candidate{Score: score, Order: order}, s.heap[0])
}

// Insert adds c when below capacity, or replaces the lowest candidate when c
// outranks it. Otherwise c is discarded.
func (s *Selector) Insert(c Candidate) {
	if len(s.heap) < s.k {
		heap.Push(&s.heap, c)
		return
	}
	if outranks(c, s.heap[0]) {
		s.heap[0] = c
		heap.Fix(&s.heap, 0)
	}
}

// Min returns the lowest held candidate.
func (s *Selector) Min() (Candidate, bool) {
	if len(s.heap) == 0 {
		return Candidate{}, false
	}
	return s.heap[0], true
}

// Best returns the highest held candidate.
func (s *Selector) Best() (Candidate, bool) {
	if len(s.heap) == 0 {
		return Candidate{}, false
	}
	best := s.heap[0]
	for _, c := range s.heap[1:] {
		if outranks(c, best) {
			best = c
		}
	}
	return best, true
}

// Sorted returns a copy of the held candidates, best first.
func (s *Selector) Sorted() []Candidate {
	out := make([]Candidate, len(s.heap))
	copy(out, s.heap)
	sort.Slice(out, func(i, j int) bool { return outranks(out[i], out[j]) })
	return out
}

// Merge inserts every candidate held by other. other is left unchanged.
func (s *Selector) Merge(other *Selector) {
	if other == nil {
		return
	}
	for _, c := range other.heap {
		s.Insert(c)
	}
}

// Reset empties the selector, keeping its capacity.
func (s *Selector) Reset() {
	s.heap = s.heap[:0]
}
