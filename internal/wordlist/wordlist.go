// Package wordlist holds the reference data the scorer measures plaintext
// against: a set of common English words and the high-frequency letter string.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Frequency lists the twelve most frequent English letters.
const Frequency = "etaoinshrdlu"

//go:embed common.txt
var builtin string

// ErrEmpty is returned when a word source contains no usable words.
var ErrEmpty = errors.New("word list is empty")

// Reference is immutable once built and safe for concurrent use.
type Reference struct {
	words     map[string]struct{}
	frequency string
}

// New builds a Reference from words and a frequency string. Words are
// lowercased and deduplicated; the frequency string must be lowercase ASCII
// letters.
func New(words []string, frequency string) (*Reference, error) {
	if frequency == "" {
		return nil, fmt.Errorf("frequency string is empty")
	}
	for i := 0; i < len(frequency); i++ {
		if frequency[i] < 'a' || frequency[i] > 'z' {
			return nil, fmt.Errorf("frequency string %q: %q is not a lowercase letter", frequency, frequency[i])
		}
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	if len(set) == 0 {
		return nil, ErrEmpty
	}
	return &Reference{words: set, frequency: frequency}, nil
}

// Default returns the built-in common word list with Frequency.
func Default() *Reference {
	words, err := Parse(strings.NewReader(builtin))
	if err != nil {
		panic(fmt.Sprintf("wordlist: embedded list: %v", err))
	}
	ref, err := New(words, Frequency)
	if err != nil {
		panic(fmt.Sprintf("wordlist: embedded list: %v", err))
	}
	return ref
}

// Parse reads one word per line. Blank lines and lines starting with '#'
// are ignored.
func Parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}

// Load reads a word list file. An empty frequency selects Frequency.
func Load(path, frequency string) (*Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	words, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if frequency == "" {
		frequency = Frequency
	}
	ref, err := New(words, frequency)
	if err != nil {
		return nil, fmt.Errorf("word list %s: %w", path, err)
	}
	return ref, nil
}

// Contains reports whether the lowercase word is in the set.
func (r *Reference) Contains(word string) bool {
	_, ok := r.words[word]
	return ok
}

// Frequency returns the high-frequency letter string.
func (r *Reference) Frequency() string {
	return r.frequency
}

// Len returns the number of distinct words.
func (r *Reference) Len() int {
	return len(r.words)
}

// Words returns the words in sorted order.
func (r *Reference) Words() []string {
	out := make([]string, 0, len(r.words))
	for w := range r.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
