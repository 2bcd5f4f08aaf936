package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	ref := Default()

	if ref.Frequency() != "etaoinshrdlu" {
		t.Errorf("unexpected frequency %q", ref.Frequency())
	}
	if ref.Len() != 124 {
		t.Errorf("expected 124 distinct words, got %d", ref.Len())
	}
	for _, w := range []string{"the", "and", "library", "knowledge", "carefully"} {
		if !ref.Contains(w) {
			t.Errorf("expected %q in default list", w)
		}
	}
	if ref.Contains("The") {
		t.Error("lookups are exact; callers lowercase first")
	}
}

func TestNew(t *testing.T) {
	ref, err := New([]string{" Alpha", "alpha", "", "BETA"}, "ab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Len() != 2 {
		t.Errorf("expected 2 words after dedup, got %d", ref.Len())
	}
	words := ref.Words()
	if words[0] != "alpha" || words[1] != "beta" {
		t.Errorf("unexpected words %v", words)
	}

	if _, err := New(nil, "ab"); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := New([]string{"a"}, ""); err == nil {
		t.Error("expected error for empty frequency")
	}
	if _, err := New([]string{"a"}, "ETA"); err == nil {
		t.Error("expected error for uppercase frequency")
	}
}

func TestParse(t *testing.T) {
	words, err := Parse(strings.NewReader("# comment\nthe\n\n  and  \n#skip\nfor\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(words, ",") != "the,and,for" {
		t.Errorf("unexpected words %v", words)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(path, []byte("cipher\nplain\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ref, err := Load(path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ref.Frequency() != Frequency {
		t.Errorf("expected default frequency, got %q", ref.Frequency())
	}
	if !ref.Contains("cipher") || ref.Contains("the") {
		t.Error("loaded list should replace the built-in words")
	}

	if _, err := Load(filepath.Join(dir, "missing.txt"), ""); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(empty, ""); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}
