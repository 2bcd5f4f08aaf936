package cipher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidKey reports cipher parameters that no transform can accept.
var ErrInvalidKey = errors.New("invalid cipher key")

// ErrKeyMismatch reports a key whose shape does not belong to the cipher.
var ErrKeyMismatch = errors.New("key does not match cipher")

// AlphabetSize is the modulus for all letter arithmetic.
const AlphabetSize = 26

// AffineMultipliers are the values in [1,25] coprime to 26, in ascending order.
var AffineMultipliers = [...]int{1, 3, 5, 7, 9, 11, 15, 17, 19, 21, 23, 25}

// Key is the parameter payload of one decryption attempt. The set of
// implementations is closed: NoKey, ShiftKey, KeyStream, RailKey, AffineKey,
// ColumnKey and WordKey.
type Key interface {
	// String renders the human-readable parameter descriptor.
	String() string
	isKey()
}

// NoKey is the payload of fixed-table and parameterless ciphers.
type NoKey struct {
	Kind Kind
}

func (NoKey) isKey() {}

func (k NoKey) String() string {
	switch k.Kind {
	case KindPolybius:
		return "Polybius Square"
	case "":
		return "none"
	default:
		return k.Kind.Label()
	}
}

// ShiftKey is a single Caesar shift in [0,25].
type ShiftKey int

func (ShiftKey) isKey() {}

func (k ShiftKey) String() string { return fmt.Sprintf("shift %d", int(k)) }

// NewShiftKey validates a Caesar shift.
func NewShiftKey(shift int) (ShiftKey, error) {
	if shift < 0 || shift >= AlphabetSize {
		return 0, fmt.Errorf("%w: shift %d outside [0,25]", ErrInvalidKey, shift)
	}
	return ShiftKey(shift), nil
}

// KeyStream is a non-empty sequence of letter shifts, each in [0,25].
type KeyStream []int

func (KeyStream) isKey() {}

func (k KeyStream) String() string { return "key: " + k.Letters() }

// Letters renders the stream in the a..z key alphabet.
func (k KeyStream) Letters() string {
	var sb strings.Builder
	sb.Grow(len(k))
	for _, shift := range k {
		sb.WriteByte(byte('a' + shift))
	}
	return sb.String()
}

// NewKeyStream validates a sequence of shifts and returns a private copy.
func NewKeyStream(shifts []int) (KeyStream, error) {
	if len(shifts) == 0 {
		return nil, fmt.Errorf("%w: key stream is empty", ErrInvalidKey)
	}
	out := make(KeyStream, len(shifts))
	for i, shift := range shifts {
		if shift < 0 || shift >= AlphabetSize {
			return nil, fmt.Errorf("%w: shift %d at position %d outside [0,25]", ErrInvalidKey, shift, i)
		}
		out[i] = shift
	}
	return out, nil
}

// ParseKeyStream converts a letter key such as "lemon" into shifts. Case is
// ignored; any non-letter rejects the key.
func ParseKeyStream(key string) (KeyStream, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: key stream is empty", ErrInvalidKey)
	}
	out := make(KeyStream, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, int(c-'a'))
		case c >= 'A' && c <= 'Z':
			out = append(out, int(c-'A'))
		default:
			return nil, fmt.Errorf("%w: %q is not a letter key", ErrInvalidKey, key)
		}
	}
	return out, nil
}

// RailKey is a Rail Fence rail count, at least 2.
type RailKey int

func (RailKey) isKey() {}

func (k RailKey) String() string { return fmt.Sprintf("%d rails", int(k)) }

// NewRailKey validates a rail count.
func NewRailKey(rails int) (RailKey, error) {
	if rails < 2 {
		return 0, fmt.Errorf("%w: %d rails, need at least 2", ErrInvalidKey, rails)
	}
	return RailKey(rails), nil
}

// AffineKey is an (a, b) pair with a coprime to 26. The zero value is not a
// valid key; build one with NewAffineKey or from AffineMultipliers.
type AffineKey struct {
	a, b int
	inv  int
}

func (AffineKey) isKey() {}

func (k AffineKey) String() string { return fmt.Sprintf("a=%d, b=%d", k.a, k.b) }

// A returns the multiplier.
func (k AffineKey) A() int { return k.a }

// B returns the offset.
func (k AffineKey) B() int { return k.b }

// NewAffineKey validates a against 26 and b against [0,25].
func NewAffineKey(a, b int) (AffineKey, error) {
	if a < 1 || a >= AlphabetSize || gcd(a, AlphabetSize) != 1 {
		return AffineKey{}, fmt.Errorf("%w: a=%d is not coprime to 26", ErrInvalidKey, a)
	}
	if b < 0 || b >= AlphabetSize {
		return AffineKey{}, fmt.Errorf("%w: b=%d outside [0,25]", ErrInvalidKey, b)
	}
	return AffineKey{a: a, b: b, inv: modInverse(a, AlphabetSize)}, nil
}

// ColumnKey orders the columns of a columnar transposition; its length is
// the column count.
type ColumnKey string

func (ColumnKey) isKey() {}

func (k ColumnKey) String() string {
	if k.ascending() {
		return fmt.Sprintf("%d cols", len(k))
	}
	return fmt.Sprintf("key: %s (%d cols)", string(k), len(k))
}

func (k ColumnKey) ascending() bool {
	for i := 1; i < len(k); i++ {
		if k[i] <= k[i-1] {
			return false
		}
	}
	return true
}

// NewColumnKey validates a columnar key.
func NewColumnKey(key string) (ColumnKey, error) {
	if key == "" {
		return "", fmt.Errorf("%w: columnar key is empty", ErrInvalidKey)
	}
	return ColumnKey(key), nil
}

// SequentialColumnKey returns the ascending key "ab…" of the given width.
func SequentialColumnKey(cols int) ColumnKey {
	buf := make([]byte, cols)
	for i := range buf {
		buf[i] = byte('a' + i)
	}
	return ColumnKey(buf)
}

// WordKey is a keyword, as used by Playfair.
type WordKey string

func (WordKey) isKey() {}

func (k WordKey) String() string { return "key: " + string(k) }

// NewWordKey validates a keyword. At least one letter is required.
func NewWordKey(key string) (WordKey, error) {
	for i := 0; i < len(key); i++ {
		if isLetter(key[i]) {
			return WordKey(key), nil
		}
	}
	return "", fmt.Errorf("%w: keyword %q has no letters", ErrInvalidKey, key)
}

// ParseKey builds the key expected by kind from a textual form: a number for
// Caesar and Rail Fence, "a,b" for Affine, a word otherwise.
func ParseKey(kind Kind, raw string) (Key, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case KindROT13, KindAtbash, KindPolybius, KindBacon, KindReverse:
		return NoKey{Kind: kind}, nil
	case KindCaesar:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: shift %q: %v", ErrInvalidKey, raw, err)
		}
		return NewShiftKey(n)
	case KindRailFence:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: rails %q: %v", ErrInvalidKey, raw, err)
		}
		return NewRailKey(n)
	case KindAffine:
		parts := strings.Split(raw, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: affine key must be \"a,b\", got %q", ErrInvalidKey, raw)
		}
		a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errA != nil || errB != nil {
			return nil, fmt.Errorf("%w: affine key must be numeric, got %q", ErrInvalidKey, raw)
		}
		return NewAffineKey(a, b)
	case KindVigenere, KindBeaufort, KindHybrid:
		return ParseKeyStream(raw)
	case KindColumnar:
		return NewColumnKey(raw)
	case KindPlayfair:
		return NewWordKey(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// modInverse returns x with a*x ≡ 1 (mod m) using the extended Euclidean
// algorithm. a must be coprime to m.
func modInverse(a, m int) int {
	if m == 1 {
		return 0
	}
	m0 := m
	x0, x1 := 0, 1
	for a > 1 {
		q := a / m
		a, m = m, a%m
		x0, x1 = x1-q*x0, x0
	}
	if x1 < 0 {
		x1 += m0
	}
	return x1
}
