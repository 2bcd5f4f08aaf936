package cipher

import (
	"context"
	"testing"

	"github.com/RowanDark/0xcrack/internal/wordlist"
)

func findFamily(results []DetectionResult, kind Kind) (DetectionResult, bool) {
	for _, r := range results {
		if r.Family == kind {
			return r, true
		}
	}
	return DetectionResult{}, false
}

func TestDetectTopSuggestion(t *testing.T) {
	detector := NewSmartDetector()
	ctx := context.Background()

	tests := []struct {
		name          string
		input         string
		expected      Kind
		minConfidence float64
	}{
		{
			name:          "polybius digit pairs",
			input:         "23 15 31 31 34",
			expected:      KindPolybius,
			minConfidence: 0.9,
		},
		{
			name:          "bacon groups",
			input:         "aabbb aabaa ababb ababb abbba",
			expected:      KindBacon,
			minConfidence: 0.85,
		},
		{
			name:          "scrambled english letters",
			input:         "WECRLTEERDSOEEFEAOCAIVDEN",
			expected:      KindRailFence,
			minConfidence: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := detector.Detect(ctx, []byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) == 0 {
				t.Fatal("expected at least one suggestion")
			}
			top := results[0]
			if top.Family != tt.expected {
				t.Errorf("expected %s first, got %s", tt.expected, top.Family)
			}
			if top.Confidence < tt.minConfidence {
				t.Errorf("expected confidence >= %.2f, got %.2f", tt.minConfidence, top.Confidence)
			}
			if top.Operation != DecryptOperationName(tt.expected) {
				t.Errorf("expected operation %s, got %s", DecryptOperationName(tt.expected), top.Operation)
			}
		})
	}
}

func TestDetectOddPolybius(t *testing.T) {
	results, err := NewSmartDetector().Detect(context.Background(), []byte("231"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := findFamily(results, KindPolybius)
	if !ok {
		t.Fatal("expected polybius suggestion")
	}
	if r.Confidence != 0.6 {
		t.Errorf("expected reduced confidence 0.6, got %.2f", r.Confidence)
	}
}

func TestDetectPlayfair(t *testing.T) {
	detector := NewSmartDetector()

	results, err := detector.Detect(context.Background(), []byte("BMODZBXDNABEKUDMUIXMMOUVIF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := findFamily(results, KindPlayfair)
	if !ok {
		t.Fatal("expected playfair suggestion")
	}
	if r.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %.2f", r.Confidence)
	}

	// A doubled letter inside a digraph cannot come from Playfair.
	results, _ = detector.Detect(context.Background(), []byte("AABC"))
	if _, ok := findFamily(results, KindPlayfair); ok {
		t.Error("playfair should not be suggested for a doubled digraph")
	}

	// Neither can a j.
	results, _ = detector.Detect(context.Background(), []byte("JABC"))
	if _, ok := findFamily(results, KindPlayfair); ok {
		t.Error("playfair should not be suggested when j is present")
	}
}

func TestDetectSubstitution(t *testing.T) {
	input := "Wkh txlfn eurzq ira mxpsv ryhu wkh odcb grj"
	results, err := NewSmartDetector().Detect(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, kind := range []Kind{KindCaesar, KindAffine, KindVigenere} {
		if _, ok := findFamily(results, kind); !ok {
			t.Errorf("expected %s to be suggested", kind)
		}
	}
	if _, ok := findFamily(results, KindBacon); ok {
		t.Error("bacon should not be suggested for mixed letters")
	}
	if _, ok := findFamily(results, KindPolybius); ok {
		t.Error("polybius should not be suggested for letters")
	}
}

func TestDetectOrderingAndThreshold(t *testing.T) {
	inputs := []string{
		"bxrworn, dodcx iy lbks !",
		"WECRLTEERDSOEEFEAOCAIVDEN",
		"23 15 31 31 34",
		"Lxfopv ef rnhr",
	}

	for _, input := range inputs {
		results, err := NewSmartDetector().Detect(context.Background(), []byte(input))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", input, err)
		}
		for i, r := range results {
			if r.Confidence < 0.3 {
				t.Errorf("%q: confidence %.2f below threshold for %s", input, r.Confidence, r.Family)
			}
			if i > 0 && results[i-1].Confidence < r.Confidence {
				t.Errorf("%q: results not sorted by confidence", input)
			}
		}
	}
}

func TestDetectEmptyInput(t *testing.T) {
	if _, err := NewSmartDetector().Detect(context.Background(), []byte{}); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestSupportedFamilies(t *testing.T) {
	families := NewSmartDetector().SupportedFamilies()
	if len(families) != 13 {
		t.Errorf("expected 13 families, got %d", len(families))
	}
}

func TestDetectBaconNeedsLowercase(t *testing.T) {
	detector := NewSmartDetector()
	for _, input := range []string{"AABAA ABBAB", "aabaa aBbab"} {
		results, err := detector.Detect(context.Background(), []byte(input))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", input, err)
		}
		if _, ok := findFamily(results, KindBacon); ok {
			t.Errorf("%q: bacon suggested but the groups do not decode", input)
		}
	}
	if got := DecryptBacon("AABAA ABBAB"); got != "" {
		t.Errorf("expected uppercase groups to decode to nothing, got %q", got)
	}
}

func TestDetectWithReference(t *testing.T) {
	const input = "zzqq zqzq"
	results, err := NewSmartDetector().Detect(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := findFamily(results, KindRailFence); ok {
		t.Error("z and q are not common with the built-in frequency string")
	}

	ref, err := wordlist.New([]string{"quiz"}, "zq")
	if err != nil {
		t.Fatalf("wordlist: %v", err)
	}
	results, err = NewSmartDetector(WithReference(ref)).Detect(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := findFamily(results, KindRailFence); !ok {
		t.Error("expected a transposition suggestion once z and q count as common")
	}
}
