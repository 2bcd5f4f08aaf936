// Package textprep normalises ciphertext before it reaches the engine.
// Ciphers only move ASCII letters, so accented or compatibility forms would
// otherwise pass through every transform untouched and never score.
package textprep

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold decomposes s, drops combining marks and recomposes it, so "Dédalo"
// becomes "Dedalo" and the ligature "ﬁ" becomes "fi". Letters with no ASCII
// decomposition (ß, ø) are kept.
func Fold(s string) (string, error) {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return "", fmt.Errorf("fold text: %w", err)
	}
	return out, nil
}

// IsASCII reports whether s is pure 7-bit ASCII.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Prepare folds s when fold is set and s is not already ASCII. Otherwise s
// is returned unchanged.
func Prepare(s string, fold bool) (string, error) {
	if !fold || IsASCII(s) {
		return s, nil
	}
	return Fold(s)
}
