package cipher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// transformOp adapts a catalog transform to the Operation interface. Key
// parameters arrive as a loosely typed map (JSON bodies, CLI flags) and are
// validated here, at the boundary, before the transform runs.
type transformOp struct {
	BaseOperation
	apply func(kind Kind, text string, key Key) (string, error)
}

func (op *transformOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := KeyFromParams(op.KindValue, params)
	if err != nil {
		return nil, err
	}
	out, err := op.apply(op.KindValue, string(input), key)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// DecryptOperationName returns the registry name of kind's decrypt operation.
func DecryptOperationName(kind Kind) string {
	return string(kind) + "_decrypt"
}

// EncryptOperationName returns the registry name of kind's encrypt operation.
// Self-inverse ciphers share their decrypt operation.
func EncryptOperationName(kind Kind) string {
	switch kind {
	case KindROT13, KindAtbash, KindReverse, KindBeaufort:
		return DecryptOperationName(kind)
	}
	return string(kind) + "_encrypt"
}

// KeyFromParams builds kind's key from an operation parameter map.
func KeyFromParams(kind Kind, params map[string]interface{}) (Key, error) {
	switch kind {
	case KindROT13, KindAtbash, KindPolybius, KindBacon, KindReverse:
		return NoKey{Kind: kind}, nil
	case KindCaesar:
		shift, err := intParam(params, "shift")
		if err != nil {
			return nil, err
		}
		return NewShiftKey(shift)
	case KindRailFence:
		rails, err := intParam(params, "rails")
		if err != nil {
			return nil, err
		}
		return NewRailKey(rails)
	case KindAffine:
		a, err := intParam(params, "a")
		if err != nil {
			return nil, err
		}
		b, err := intParam(params, "b")
		if err != nil {
			return nil, err
		}
		return NewAffineKey(a, b)
	case KindVigenere, KindBeaufort, KindHybrid, KindColumnar, KindPlayfair:
		raw, err := stringParam(params, "key")
		if err != nil {
			return nil, err
		}
		return ParseKey(kind, raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func intParam(params map[string]interface{}, name string) (int, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: missing parameter %q", ErrInvalidKey, name)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: parameter %q must be an integer, got %v", ErrInvalidKey, name, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: parameter %q: %v", ErrInvalidKey, name, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: parameter %q: %v", ErrInvalidKey, name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: parameter %q has unsupported type %T", ErrInvalidKey, name, raw)
	}
}

func stringParam(params map[string]interface{}, name string) (string, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: missing parameter %q", ErrInvalidKey, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: parameter %q must be a string, got %T", ErrInvalidKey, name, raw)
	}
	return s, nil
}

var operationDescriptions = map[Kind]string{
	KindCaesar:    "Shift letters by a fixed amount (param: shift)",
	KindROT13:     "Rotate letters by 13",
	KindAtbash:    "Mirror letters across the alphabet",
	KindVigenere:  "Polyalphabetic shift by a letter key (param: key)",
	KindRailFence: "Zig-zag transposition over N rails (param: rails)",
	KindAffine:    "Linear substitution, decrypt x = a⁻¹·(y + b) (params: a, b)",
	KindBeaufort:  "Reciprocal key-minus-letter substitution (param: key)",
	KindColumnar:  "Column transposition ordered by a key (param: key)",
	KindPlayfair:  "Digraph substitution over a 5x5 key square (param: key)",
	KindPolybius:  "Digit-pair coordinates on a fixed 5x5 square",
	KindBacon:     "Five-letter a/b groups mapped to letters",
	KindReverse:   "Reverse character order",
	KindHybrid:    "Atbash layered with Vigenère (param: key)",
}

func init() {
	for _, kind := range catalog {
		decrypt := &transformOp{
			BaseOperation: BaseOperation{
				NameValue:        DecryptOperationName(kind),
				TypeValue:        OperationTypeDecrypt,
				KindValue:        kind,
				DescriptionValue: kind.Label() + " decrypt: " + operationDescriptions[kind],
			},
			apply: Decrypt,
		}

		switch kind {
		case KindROT13, KindAtbash, KindReverse, KindBeaufort:
			decrypt.ReverseOp = decrypt
		case KindPlayfair, KindPolybius, KindBacon:
			// no forward transform
		default:
			encrypt := &transformOp{
				BaseOperation: BaseOperation{
					NameValue:        EncryptOperationName(kind),
					TypeValue:        OperationTypeEncrypt,
					KindValue:        kind,
					DescriptionValue: kind.Label() + " encrypt: " + operationDescriptions[kind],
					ReverseOp:        decrypt,
				},
				apply: Encrypt,
			}
			decrypt.ReverseOp = encrypt
			mustRegister(encrypt)
		}

		mustRegister(decrypt)
	}
}

func mustRegister(op Operation) {
	if err := RegisterOperation(op); err != nil {
		panic(err)
	}
}
