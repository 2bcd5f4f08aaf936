package cipher

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one cipher family in the closed catalog.
type Kind string

const (
	KindCaesar    Kind = "caesar"
	KindROT13     Kind = "rot13"
	KindAtbash    Kind = "atbash"
	KindVigenere  Kind = "vigenere"
	KindRailFence Kind = "railfence"
	KindAffine    Kind = "affine"
	KindBeaufort  Kind = "beaufort"
	KindColumnar  Kind = "columnar"
	KindPlayfair  Kind = "playfair"
	KindPolybius  Kind = "polybius"
	KindBacon     Kind = "bacon"
	KindReverse   Kind = "reverse"
	KindHybrid    Kind = "hybrid"
)

// catalog lists every family in menu order.
var catalog = []Kind{
	KindCaesar,
	KindROT13,
	KindAtbash,
	KindVigenere,
	KindRailFence,
	KindAffine,
	KindBeaufort,
	KindColumnar,
	KindPlayfair,
	KindPolybius,
	KindBacon,
	KindReverse,
	KindHybrid,
}

var kindLabels = map[Kind]string{
	KindCaesar:    "Caesar",
	KindROT13:     "ROT13",
	KindAtbash:    "Atbash",
	KindVigenere:  "Vigenère",
	KindRailFence: "Rail Fence",
	KindAffine:    "Affine",
	KindBeaufort:  "Beaufort",
	KindColumnar:  "Columnar",
	KindPlayfair:  "Playfair",
	KindPolybius:  "Polybius",
	KindBacon:     "Bacon",
	KindReverse:   "Reverse",
	KindHybrid:    "Hybrid",
}

// ErrUnknownOperation is returned when a pipeline names an unregistered
// operation.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrUnknownKind is returned when a cipher name does not match the catalog.
var ErrUnknownKind = errors.New("unknown cipher")

// Kinds returns the catalog in menu order.
func Kinds() []Kind {
	out := make([]Kind, len(catalog))
	copy(out, catalog)
	return out
}

// Label returns the display name used in candidate listings.
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// Valid reports whether k is part of the catalog.
func (k Kind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// ParseKind resolves a cipher name or display label, case-insensitively.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "", "-", "", "_", "", "è", "e").Replace(normalized)
	for _, k := range catalog {
		label := strings.ToLower(strings.ReplaceAll(k.Label(), " ", ""))
		label = strings.ReplaceAll(label, "è", "e")
		if normalized == string(k) || normalized == label {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// OperationType defines the category of transformation operation
type OperationType string

const (
	OperationTypeEncrypt OperationType = "encrypt"
	OperationTypeDecrypt OperationType = "decrypt"
)

// Operation represents a single transformation operation that can be applied to data
type Operation interface {
	// Name returns the unique identifier for this operation
	Name() string

	// Type returns the category of this operation
	Type() OperationType

	// Kind returns the cipher family the operation belongs to
	Kind() Kind

	// Description returns a human-readable description
	Description() string

	// Execute applies the operation to the input data
	Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error)

	// Reverse returns the inverse operation if available
	Reverse() (Operation, bool)
}

// OperationConfig represents configuration for an operation in a pipeline
type OperationConfig struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Pipeline represents a chain of operations that can be applied sequentially
type Pipeline struct {
	Operations []OperationConfig `json:"operations"`
	Reversible bool              `json:"reversible"`
}

// Execute runs the pipeline on the input data
func (p *Pipeline) Execute(ctx context.Context, input []byte) ([]byte, error) {
	result := input
	var err error

	for i, opConfig := range p.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		op, exists := GetOperation(opConfig.Name)
		if !exists {
			return nil, fmt.Errorf("%w at step %d: %s", ErrUnknownOperation, i, opConfig.Name)
		}

		result, err = op.Execute(ctx, result, opConfig.Parameters)
		if err != nil {
			return nil, fmt.Errorf("operation %s failed at step %d: %w", opConfig.Name, i, err)
		}
	}

	return result, nil
}

// Reverse creates a reversed pipeline if all operations are reversible
func (p *Pipeline) Reverse() (*Pipeline, error) {
	if !p.Reversible {
		return nil, fmt.Errorf("pipeline is not reversible")
	}

	reversed := &Pipeline{
		Operations: make([]OperationConfig, len(p.Operations)),
		Reversible: true,
	}

	for i, opConfig := range p.Operations {
		op, exists := GetOperation(opConfig.Name)
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, opConfig.Name)
		}

		reverseOp, ok := op.Reverse()
		if !ok {
			return nil, fmt.Errorf("operation %s is not reversible", opConfig.Name)
		}

		reversed.Operations[len(p.Operations)-1-i] = OperationConfig{
			Name:       reverseOp.Name(),
			Parameters: opConfig.Parameters,
		}
	}

	return reversed, nil
}

// DetectionResult is one suggestion produced by profiling a ciphertext.
type DetectionResult struct {
	Family     Kind    `json:"family"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Reasoning  string  `json:"reasoning"`
	Operation  string  `json:"operation"` // Suggested decrypt operation name
}

// Detector suggests which cipher families plausibly produced an input
type Detector interface {
	// Detect profiles the input and returns ranked suggestions
	Detect(ctx context.Context, input []byte) ([]DetectionResult, error)

	// SupportedFamilies returns the families this detector can suggest
	SupportedFamilies() []Kind
}

// BaseOperation provides common functionality for operations
type BaseOperation struct {
	NameValue        string
	TypeValue        OperationType
	KindValue        Kind
	DescriptionValue string
	ReverseOp        Operation
}

func (b *BaseOperation) Name() string {
	return b.NameValue
}

func (b *BaseOperation) Type() OperationType {
	return b.TypeValue
}

func (b *BaseOperation) Kind() Kind {
	return b.KindValue
}

func (b *BaseOperation) Description() string {
	return b.DescriptionValue
}

func (b *BaseOperation) Reverse() (Operation, bool) {
	if b.ReverseOp == nil {
		return nil, false
	}
	return b.ReverseOp, true
}
