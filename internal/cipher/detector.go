package cipher

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/RowanDark/0xcrack/internal/wordlist"
)

// SmartDetector profiles a ciphertext's alphabet and letter mix and suggests
// which families are worth brute forcing first. It never guesses keys.
type SmartDetector struct {
	// common marks the high-frequency letters of the reference data.
	common [26]bool
}

// DetectorOption configures a SmartDetector.
type DetectorOption func(*SmartDetector)

// WithReference measures letter mix against ref's frequency string, the same
// one the scorer uses.
func WithReference(ref *wordlist.Reference) DetectorOption {
	return func(d *SmartDetector) {
		if ref != nil {
			d.setCommon(ref.Frequency())
		}
	}
}

// NewSmartDetector creates a new smart detector over wordlist.Frequency
// unless WithReference says otherwise.
func NewSmartDetector(opts ...DetectorOption) *SmartDetector {
	d := &SmartDetector{}
	d.setCommon(wordlist.Frequency)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *SmartDetector) setCommon(frequency string) {
	d.common = [26]bool{}
	for i := 0; i < len(frequency); i++ {
		if c := frequency[i] | 0x20; c >= 'a' && c <= 'z' {
			d.common[c-'a'] = true
		}
	}
}

// profile summarises the character classes of an input.
type profile struct {
	letters      int
	digits       int
	spaces       int
	other        int
	abOnly       bool
	polybiusOnly bool
	hasJ         bool
	commonShare  float64
	ioc          float64
}

// profileOf classifies input. Bacon groups only decode from lowercase a and
// b, so uppercase letters rule it out.
func profileOf(input string, common *[26]bool) profile {
	p := profile{abOnly: true, polybiusOnly: true}
	var counts [26]int
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case isLetter(c):
			p.letters++
			lower := c | 0x20
			counts[lower-'a']++
			if c != 'a' && c != 'b' {
				p.abOnly = false
			}
			if lower == 'j' {
				p.hasJ = true
			}
			p.polybiusOnly = false
		case c >= '0' && c <= '9':
			p.digits++
			p.abOnly = false
			if c < '1' || c > '5' {
				p.polybiusOnly = false
			}
		case c == ' ':
			p.spaces++
		default:
			p.other++
			p.polybiusOnly = false
		}
	}
	if p.letters == 0 {
		p.abOnly = false
	}
	if p.digits == 0 {
		p.polybiusOnly = false
	}
	if p.letters > 0 {
		n := 0
		for i, isCommon := range common {
			if isCommon {
				n += counts[i]
			}
		}
		p.commonShare = float64(n) / float64(p.letters)
	}
	if p.letters > 1 {
		sum := 0
		for _, n := range counts {
			sum += n * (n - 1)
		}
		p.ioc = float64(sum) / float64(p.letters*(p.letters-1))
	}
	return p
}

// Detect profiles the input and returns suggestions ordered by confidence
func (d *SmartDetector) Detect(ctx context.Context, input []byte) ([]DetectionResult, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := profileOf(string(input), &d.common)

	results := []DetectionResult{}
	results = append(results, d.detectPolybius(p)...)
	results = append(results, d.detectBacon(p)...)
	results = append(results, d.detectTransposition(p)...)
	results = append(results, d.detectSubstitution(p)...)
	results = append(results, d.detectPlayfair(string(input), p)...)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	// Filter low confidence results (< 0.3)
	filtered := []DetectionResult{}
	for _, r := range results {
		if r.Confidence >= 0.3 {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}

// SupportedFamilies returns the families this detector can suggest
func (d *SmartDetector) SupportedFamilies() []Kind {
	return Kinds()
}

func suggestion(kind Kind, confidence float64, reasoning string) DetectionResult {
	return DetectionResult{
		Family:     kind,
		Confidence: math.Round(confidence*100) / 100,
		Reasoning:  reasoning,
		Operation:  DecryptOperationName(kind),
	}
}

// detectPolybius checks for digit pairs drawn from 1..5
func (d *SmartDetector) detectPolybius(p profile) []DetectionResult {
	if !p.polybiusOnly {
		return nil
	}
	confidence := 0.95
	if p.digits%2 != 0 {
		confidence = 0.6
	}
	return []DetectionResult{suggestion(KindPolybius, confidence, "Only digits 1-5, read as square coordinates")}
}

// detectBacon checks for five-letter groups made of a and b only
func (d *SmartDetector) detectBacon(p profile) []DetectionResult {
	if !p.abOnly {
		return nil
	}
	confidence := 0.9
	if p.letters%5 != 0 {
		confidence = 0.5
	}
	return []DetectionResult{suggestion(KindBacon, confidence, fmt.Sprintf("%d letters drawn only from a/b", p.letters))}
}

// detectTransposition fires when letter frequencies already look English:
// transpositions move letters but keep their counts.
func (d *SmartDetector) detectTransposition(p profile) []DetectionResult {
	if p.letters < 4 || p.abOnly {
		return nil
	}
	if p.commonShare < 0.55 {
		return nil
	}
	confidence := math.Min(0.4+(p.commonShare-0.55)*2, 0.85)
	reason := fmt.Sprintf("%.0f%% of letters are common English letters; order may be scrambled", p.commonShare*100)
	return []DetectionResult{
		suggestion(KindRailFence, confidence, reason),
		suggestion(KindColumnar, confidence-0.05, reason),
		suggestion(KindReverse, confidence-0.1, reason),
	}
}

// detectSubstitution suggests letter substitutions, preferring monoalphabetic
// families when the letter distribution is peaked (high index of coincidence).
func (d *SmartDetector) detectSubstitution(p profile) []DetectionResult {
	if p.letters == 0 || p.abOnly {
		return nil
	}
	mono := 0.6
	poly := 0.45
	if p.letters >= 20 {
		switch {
		case p.ioc >= 0.055:
			mono, poly = 0.75, 0.35
		case p.ioc <= 0.045:
			mono, poly = 0.4, 0.7
		}
	}
	if p.commonShare >= 0.55 {
		mono -= 0.2
		poly -= 0.2
	}
	return []DetectionResult{
		suggestion(KindCaesar, mono, "Letters present; shift substitution is cheap to exhaust"),
		suggestion(KindAffine, mono-0.05, "Letters present; 312 affine keys"),
		suggestion(KindAtbash, mono-0.1, "Letters present; fixed mirror substitution"),
		suggestion(KindROT13, mono-0.1, "Letters present; fixed rotation"),
		suggestion(KindVigenere, poly, "Letter distribution consistent with a key stream"),
		suggestion(KindBeaufort, poly-0.05, "Letter distribution consistent with a key stream"),
		suggestion(KindHybrid, poly-0.1, "Letter distribution consistent with a layered key stream"),
	}
}

// detectPlayfair looks for an even letter count with no j and no doubled
// letter inside a digraph.
func (d *SmartDetector) detectPlayfair(input string, p profile) []DetectionResult {
	if p.letters < 2 || p.letters%2 != 0 || p.hasJ || p.abOnly {
		return nil
	}
	clean := playfairClean(input)
	for i := 0; i+1 < len(clean); i += 2 {
		if clean[i] == clean[i+1] {
			return nil
		}
	}
	confidence := 0.35
	if strings.Count(input, " ") == 0 {
		confidence = 0.5
	}
	return []DetectionResult{suggestion(KindPlayfair, confidence, "Even letter count, no j, no doubled digraph")}
}
