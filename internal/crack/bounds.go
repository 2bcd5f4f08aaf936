package crack

import (
	"fmt"

	"github.com/RowanDark/0xcrack/internal/cipher"
)

// DefaultPlayfairKeys are the keywords tried against Playfair.
var DefaultPlayfairKeys = []string{"key", "secret", "cipher", "enigma", "cryptography", "library", "ancient", "knowledge"}

const (
	// MaxKeyStreamLength caps key stream searches; 26^6 is already ~3·10^8 keys.
	MaxKeyStreamLength = 6
	// MaxPermutationColumns caps the full columnar permutation search (8! keys).
	MaxPermutationColumns = 8
	maxColumns            = 26
	maxRails              = 64
)

// Bounds are the per-family search limits.
type Bounds struct {
	MaxVigenereKey int
	MaxBeaufortKey int
	MaxHybridKey   int
	MinRails       int
	MaxRails       int
	MinColumns     int
	MaxColumns     int
	PlayfairKeys   []string

	// ColumnarPermutations tries every column order for widths up to
	// MaxPermutationColumns instead of only the ascending key.
	ColumnarPermutations bool
}

// DefaultBounds returns the standard search space.
func DefaultBounds() Bounds {
	keys := make([]string, len(DefaultPlayfairKeys))
	copy(keys, DefaultPlayfairKeys)
	return Bounds{
		MaxVigenereKey: 5,
		MaxBeaufortKey: 5,
		MaxHybridKey:   4,
		MinRails:       2,
		MaxRails:       15,
		MinColumns:     2,
		MaxColumns:     10,
		PlayfairKeys:   keys,
	}
}

// Validate checks every limit.
func (b Bounds) Validate() error {
	for _, kind := range []cipher.Kind{cipher.KindVigenere, cipher.KindBeaufort, cipher.KindHybrid} {
		if n := b.keyStreamLength(kind); n < 1 || n > MaxKeyStreamLength {
			return fmt.Errorf("%s key length %d outside 1..%d", kind, n, MaxKeyStreamLength)
		}
	}
	if b.MinRails < 2 || b.MaxRails < b.MinRails || b.MaxRails > maxRails {
		return fmt.Errorf("rails %d..%d invalid, need 2 <= min <= max <= %d", b.MinRails, b.MaxRails, maxRails)
	}
	if b.MinColumns < 2 || b.MaxColumns < b.MinColumns || b.MaxColumns > maxColumns {
		return fmt.Errorf("columns %d..%d invalid, need 2 <= min <= max <= %d", b.MinColumns, b.MaxColumns, maxColumns)
	}
	if len(b.PlayfairKeys) == 0 {
		return fmt.Errorf("at least one playfair key is required")
	}
	for _, k := range b.PlayfairKeys {
		if _, err := cipher.NewWordKey(k); err != nil {
			return err
		}
	}
	return nil
}

func (b Bounds) keyStreamLength(kind cipher.Kind) int {
	switch kind {
	case cipher.KindVigenere:
		return b.MaxVigenereKey
	case cipher.KindBeaufort:
		return b.MaxBeaufortKey
	case cipher.KindHybrid:
		return b.MaxHybridKey
	}
	return 0
}
