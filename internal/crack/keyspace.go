package crack

import (
	"fmt"

	"github.com/RowanDark/0xcrack/internal/cipher"
)

// Keyspace is an indexed, lazily generated sequence of keys for one kind.
// At(i) for i in [0, Size()) enumerates every key exactly once, in a fixed
// order.
type Keyspace interface {
	Kind() cipher.Kind
	Size() uint64
	At(ordinal uint64) cipher.Key
}

// Space returns the keyspace searched for kind under b.
func Space(kind cipher.Kind, b Bounds) (Keyspace, error) {
	switch kind {
	case cipher.KindCaesar:
		return shiftSpace{}, nil
	case cipher.KindVigenere, cipher.KindBeaufort, cipher.KindHybrid:
		return streamSpace{kind: kind, maxLen: b.keyStreamLength(kind)}, nil
	case cipher.KindRailFence:
		return railSpace{min: b.MinRails, max: b.MaxRails}, nil
	case cipher.KindAffine:
		return affineSpace{}, nil
	case cipher.KindColumnar:
		return newColumnSpace(b.MinColumns, b.MaxColumns, b.ColumnarPermutations), nil
	case cipher.KindPlayfair:
		return wordSpace{keys: b.PlayfairKeys}, nil
	case cipher.KindROT13, cipher.KindAtbash, cipher.KindPolybius, cipher.KindBacon, cipher.KindReverse:
		return fixedSpace{kind: kind}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, kind)
}

type shiftSpace struct{}

func (shiftSpace) Kind() cipher.Kind { return cipher.KindCaesar }
func (shiftSpace) Size() uint64      { return cipher.AlphabetSize }

func (shiftSpace) At(i uint64) cipher.Key { return cipher.ShiftKey(i) }

// streamSpace covers every key of length 1..maxLen. Within a length, the
// ordinal is the key read as a base-26 number, most significant digit first.
type streamSpace struct {
	kind   cipher.Kind
	maxLen int
}

func (s streamSpace) Kind() cipher.Kind { return s.kind }

func (s streamSpace) Size() uint64 {
	var total uint64
	n := uint64(1)
	for l := 1; l <= s.maxLen; l++ {
		n *= cipher.AlphabetSize
		total += n
	}
	return total
}

func (s streamSpace) At(i uint64) cipher.Key {
	n := uint64(1)
	for l := 1; l <= s.maxLen; l++ {
		n *= cipher.AlphabetSize
		if i < n {
			return keyStreamAt(i, l)
		}
		i -= n
	}
	panic(fmt.Sprintf("crack: ordinal out of range for %s keyspace", s.kind))
}

func keyStreamAt(i uint64, length int) cipher.KeyStream {
	key := make(cipher.KeyStream, length)
	for j := length - 1; j >= 0; j-- {
		key[j] = int(i % cipher.AlphabetSize)
		i /= cipher.AlphabetSize
	}
	return key
}

type railSpace struct{ min, max int }

func (railSpace) Kind() cipher.Kind { return cipher.KindRailFence }
func (r railSpace) Size() uint64    { return uint64(r.max - r.min + 1) }

func (r railSpace) At(i uint64) cipher.Key { return cipher.RailKey(r.min + int(i)) }

// affineSpace enumerates a over the coprime multipliers, then b over 0..25.
type affineSpace struct{}

func (affineSpace) Kind() cipher.Kind { return cipher.KindAffine }
func (affineSpace) Size() uint64      { return uint64(len(cipher.AffineMultipliers) * cipher.AlphabetSize) }

func (affineSpace) At(i uint64) cipher.Key {
	a := cipher.AffineMultipliers[i/cipher.AlphabetSize]
	key, err := cipher.NewAffineKey(a, int(i%cipher.AlphabetSize))
	if err != nil {
		panic(err)
	}
	return key
}

// columnSpace walks widths min..max. Each width contributes either only its
// ascending key or, with permutations on and width <= MaxPermutationColumns,
// all width! orders starting from the ascending one.
type columnSpace struct {
	widths []int
	sizes  []uint64
	total  uint64
}

func newColumnSpace(min, max int, permutations bool) columnSpace {
	var cs columnSpace
	for w := min; w <= max; w++ {
		size := uint64(1)
		if permutations && w <= MaxPermutationColumns {
			size = factorial(w)
		}
		cs.widths = append(cs.widths, w)
		cs.sizes = append(cs.sizes, size)
		cs.total += size
	}
	return cs
}

func (columnSpace) Kind() cipher.Kind { return cipher.KindColumnar }
func (c columnSpace) Size() uint64    { return c.total }

func (c columnSpace) At(i uint64) cipher.Key {
	for j, size := range c.sizes {
		if i < size {
			if size == 1 {
				return cipher.SequentialColumnKey(c.widths[j])
			}
			return permutationKey(i, c.widths[j])
		}
		i -= size
	}
	panic("crack: ordinal out of range for columnar keyspace")
}

// permutationKey decodes i as a Lehmer code into a column order of width
// n. Ordinal 0 is the ascending key.
func permutationKey(i uint64, n int) cipher.ColumnKey {
	pool := make([]byte, n)
	for j := range pool {
		pool[j] = byte('a' + j)
	}
	key := make([]byte, 0, n)
	for j := n; j > 0; j-- {
		f := factorial(j - 1)
		idx := i / f
		i %= f
		key = append(key, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return cipher.ColumnKey(key)
}

func factorial(n int) uint64 {
	f := uint64(1)
	for i := 2; i <= n; i++ {
		f *= uint64(i)
	}
	return f
}

type wordSpace struct{ keys []string }

func (wordSpace) Kind() cipher.Kind { return cipher.KindPlayfair }
func (w wordSpace) Size() uint64    { return uint64(len(w.keys)) }

func (w wordSpace) At(i uint64) cipher.Key { return cipher.WordKey(w.keys[i]) }

type fixedSpace struct{ kind cipher.Kind }

func (f fixedSpace) Kind() cipher.Kind { return f.kind }
func (fixedSpace) Size() uint64        { return 1 }

func (f fixedSpace) At(uint64) cipher.Key { return cipher.NoKey{Kind: f.kind} }
