package cipher

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPipelineExecute(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		pipeline *Pipeline
		input    string
		expected string
		wantErr  bool
	}{
		{
			name: "single operation",
			pipeline: &Pipeline{
				Operations: []OperationConfig{
					{Name: "caesar_decrypt", Parameters: map[string]interface{}{"shift": 3}},
				},
			},
			input:    "Khoor",
			expected: "Hello",
		},
		{
			name: "encrypt then decrypt",
			pipeline: &Pipeline{
				Operations: []OperationConfig{
					{Name: "vigenere_encrypt", Parameters: map[string]interface{}{"key": "lemon"}},
					{Name: "vigenere_decrypt", Parameters: map[string]interface{}{"key": "lemon"}},
				},
			},
			input:    "Attack at dawn",
			expected: "Attack at dawn",
		},
		{
			name: "atbash then vigenere equals hybrid",
			pipeline: &Pipeline{
				Operations: []OperationConfig{
					{Name: "atbash_decrypt"},
					{Name: "vigenere_decrypt", Parameters: map[string]interface{}{"key": "key"}},
				},
			},
			input:    "bxrworn, dodcx iy lbks !",
			expected: DecryptHybrid("bxrworn, dodcx iy lbks !", KeyStream{10, 4, 24}),
		},
		{
			name: "reverse twice",
			pipeline: &Pipeline{
				Operations: []OperationConfig{
					{Name: "reverse_decrypt"},
					{Name: "reverse_decrypt"},
				},
			},
			input:    "palindrome?",
			expected: "palindrome?",
		},
		{
			name: "unknown operation",
			pipeline: &Pipeline{
				Operations: []OperationConfig{
					{Name: "enigma_decrypt"},
				},
			},
			input:   "test",
			wantErr: true,
		},
		{
			name: "bad parameters",
			pipeline: &Pipeline{
				Operations: []OperationConfig{
					{Name: "railfence_decrypt", Parameters: map[string]interface{}{"rails": 0}},
				},
			},
			input:   "test",
			wantErr: true,
		},
		{
			name:     "empty pipeline",
			pipeline: &Pipeline{},
			input:    "unchanged",
			expected: "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.pipeline.Execute(ctx, []byte(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if string(result) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

func TestPipelineErrorWrapsKeyError(t *testing.T) {
	p := &Pipeline{Operations: []OperationConfig{{Name: "affine_decrypt", Parameters: map[string]interface{}{"a": 13, "b": 1}}}}
	_, err := p.Execute(context.Background(), []byte("x"))
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "step 0") {
		t.Errorf("expected step index in error, got %v", err)
	}
}

func TestPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Pipeline{Operations: []OperationConfig{{Name: "atbash_decrypt"}}}
	if _, err := p.Execute(ctx, []byte("abc")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPipelineReverse(t *testing.T) {
	ctx := context.Background()

	p := &Pipeline{
		Operations: []OperationConfig{
			{Name: "caesar_encrypt", Parameters: map[string]interface{}{"shift": 5}},
			{Name: "columnar_encrypt", Parameters: map[string]interface{}{"key": "cipher"}},
			{Name: "atbash_decrypt"},
		},
		Reversible: true,
	}

	reversed, err := p.Reverse()
	if err != nil {
		t.Fatalf("failed to reverse pipeline: %v", err)
	}

	expectedNames := []string{"atbash_decrypt", "columnar_decrypt", "caesar_decrypt"}
	for i, name := range expectedNames {
		if reversed.Operations[i].Name != name {
			t.Errorf("step %d: expected %s, got %s", i, name, reversed.Operations[i].Name)
		}
	}

	input := "Layered transforms unwind in reverse order."
	encoded, err := p.Execute(ctx, []byte(input))
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	decoded, err := reversed.Execute(ctx, encoded)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if string(decoded) != input {
		t.Errorf("expected %q, got %q", input, string(decoded))
	}
}

func TestPipelineReverseRejected(t *testing.T) {
	notReversible := &Pipeline{
		Operations: []OperationConfig{{Name: "caesar_encrypt"}},
	}
	if _, err := notReversible.Reverse(); err == nil {
		t.Error("expected error for pipeline not marked reversible")
	}

	oneWay := &Pipeline{
		Operations: []OperationConfig{{Name: "polybius_decrypt"}},
		Reversible: true,
	}
	if _, err := oneWay.Reverse(); err == nil {
		t.Error("expected error for one-way operation")
	}
}
