// Package scorer rates candidate plaintexts for English-likeness.
//
// A score has three additive parts: the number of high-frequency letters,
// a bonus per recognised word, and a bonus proportional to the share of
// recognised words. Higher is more English-like; the absolute value has no
// meaning beyond comparison between candidates of the same ciphertext.
package scorer

import (
	"errors"
	"fmt"

	"github.com/RowanDark/0xcrack/internal/wordlist"
)

// MinTokenLength is the shortest token considered a word.
const MinTokenLength = 3

// maxTokenLength bounds the lookup buffer; longer tokens cannot be in any
// word list the scorer is given.
const maxTokenLength = 64

// Weights multiply each score component.
type Weights struct {
	Letter   int `json:"letter"`
	Word     int `json:"word"`
	Validity int `json:"validity"`
}

// DefaultWeights returns letter 1, word 10, validity 2.
func DefaultWeights() Weights {
	return Weights{Letter: 1, Word: 10, Validity: 2}
}

// Breakdown is a score split into its components, before and after weighting.
type Breakdown struct {
	Letters  int `json:"letters"`
	Matched  int `json:"matched"`
	Tokens   int `json:"tokens"`
	Validity int `json:"validity"`
	Total    int `json:"total"`
}

// Scorer is immutable and safe for concurrent use.
type Scorer struct {
	ref     *wordlist.Reference
	weights Weights
	letter  [26]int
}

// New builds a Scorer over ref. Weights must be non-negative.
func New(ref *wordlist.Reference, weights Weights) (*Scorer, error) {
	if ref == nil {
		return nil, errors.New("scorer: reference data is required")
	}
	if weights.Letter < 0 || weights.Word < 0 || weights.Validity < 0 {
		return nil, fmt.Errorf("scorer: weights must be non-negative, got %+v", weights)
	}

	s := &Scorer{ref: ref, weights: weights}
	freq := ref.Frequency()
	for i := 0; i < len(freq); i++ {
		s.letter[freq[i]-'a']++
	}
	return s, nil
}

// Default returns a Scorer over the built-in word list with DefaultWeights.
func Default() *Scorer {
	s, err := New(wordlist.Default(), DefaultWeights())
	if err != nil {
		panic(err)
	}
	return s
}

// Reference returns the reference data the scorer measures against.
func (s *Scorer) Reference() *wordlist.Reference {
	return s.ref
}

// Weights returns the configured weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the weighted score of text.
func (s *Scorer) Score(text string) int {
	return s.Breakdown(text).Total
}

// Breakdown scores text and reports each component.
//
// Letters counts ASCII letters, case-insensitively, that appear in the
// frequency string. Tokens are maximal runs of ASCII letters, lowercased, of
// at least MinTokenLength; Matched counts those in the word set. Validity is
// Matched*100/Tokens with integer division, or 0 with no tokens.
func (s *Scorer) Breakdown(text string) Breakdown {
	var b Breakdown
	var buf [maxTokenLength]byte
	n := 0
	overflow := false

	flush := func() {
		if n >= MinTokenLength {
			b.Tokens++
			if !overflow && s.ref.Contains(string(buf[:n])) {
				b.Matched++
			}
		}
		n = 0
		overflow = false
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		} else if c < 'a' || c > 'z' {
			flush()
			continue
		}
		b.Letters += s.letter[c-'a']
		if n < maxTokenLength {
			buf[n] = c
			n++
		} else {
			overflow = true
		}
	}
	flush()

	if b.Tokens > 0 {
		b.Validity = b.Matched * 100 / b.Tokens
	}
	b.Total = b.Letters*s.weights.Letter + b.Matched*s.weights.Word + b.Validity*s.weights.Validity
	return b
}
