package crack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RowanDark/0xcrack/internal/cipher"
)

// ErrUnknownFamily is returned when a family selector matches nothing.
var ErrUnknownFamily = errors.New("unknown cipher family")

// Family selects what a run searches: one cipher kind, or every kind.
type Family string

// FamilyAll runs every kind into one shared selector.
const FamilyAll Family = "all"

// FamilyOf returns the single-kind family for kind.
func FamilyOf(kind cipher.Kind) Family {
	return Family(kind)
}

// Families returns every selectable family, FamilyAll first, then the
// catalog in menu order.
func Families() []Family {
	kinds := cipher.Kinds()
	out := make([]Family, 0, len(kinds)+1)
	out = append(out, FamilyAll)
	for _, k := range kinds {
		out = append(out, FamilyOf(k))
	}
	return out
}

// ParseFamily accepts "all", a kind name or label, or a menu number where
// 0 is all and 1..13 follow the catalog order.
func ParseFamily(s string) (Family, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, string(FamilyAll)) {
		return FamilyAll, nil
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		kinds := cipher.Kinds()
		switch {
		case n == 0:
			return FamilyAll, nil
		case n >= 1 && n <= len(kinds):
			return FamilyOf(kinds[n-1]), nil
		default:
			return "", fmt.Errorf("%w: menu number %d outside 0..%d", ErrUnknownFamily, n, len(kinds))
		}
	}

	kind, err := cipher.ParseKind(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
	return FamilyOf(kind), nil
}

// Kinds returns the cipher kinds the family covers, in catalog order.
func (f Family) Kinds() []cipher.Kind {
	if f == FamilyAll {
		return cipher.Kinds()
	}
	return []cipher.Kind{cipher.Kind(f)}
}

// Valid reports whether f is FamilyAll or a catalog kind.
func (f Family) Valid() bool {
	return f == FamilyAll || cipher.Kind(f).Valid()
}

// Label is the display name.
func (f Family) Label() string {
	if f == FamilyAll {
		return "All"
	}
	return cipher.Kind(f).Label()
}

// Number is the menu number: 0 for all, 1..13 for the catalog, -1 if invalid.
func (f Family) Number() int {
	if f == FamilyAll {
		return 0
	}
	for i, k := range cipher.Kinds() {
		if cipher.Kind(f) == k {
			return i + 1
		}
	}
	return -1
}
