package crack

import (
	"errors"
	"strconv"
	"testing"

	"github.com/RowanDark/0xcrack/internal/cipher"
)

func TestParseFamily(t *testing.T) {
	tests := []struct {
		input    string
		expected Family
	}{
		{"", FamilyAll},
		{"all", FamilyAll},
		{"ALL", FamilyAll},
		{"0", FamilyAll},
		{"1", FamilyOf(cipher.KindCaesar)},
		{"4", FamilyOf(cipher.KindVigenere)},
		{"13", FamilyOf(cipher.KindHybrid)},
		{"caesar", FamilyOf(cipher.KindCaesar)},
		{"Rail Fence", FamilyOf(cipher.KindRailFence)},
		{"Vigenère", FamilyOf(cipher.KindVigenere)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFamily(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}

	for _, bad := range []string{"14", "-1", "enigma"} {
		if _, err := ParseFamily(bad); !errors.Is(err, ErrUnknownFamily) {
			t.Errorf("%q: expected ErrUnknownFamily, got %v", bad, err)
		}
	}
}

func TestFamilyNumbersRoundTrip(t *testing.T) {
	for _, f := range Families() {
		n := f.Number()
		if n < 0 {
			t.Fatalf("%s has no menu number", f)
		}
		parsed, err := ParseFamily(strconv.Itoa(n))
		if err != nil {
			t.Fatalf("parse %d: %v", n, err)
		}
		if parsed != f {
			t.Errorf("menu %d: expected %s, got %s", n, f, parsed)
		}
	}

	if Family("enigma").Number() != -1 {
		t.Error("invalid family should have no number")
	}
}

func TestFamilyKinds(t *testing.T) {
	if got := len(FamilyAll.Kinds()); got != 13 {
		t.Errorf("expected 13 kinds, got %d", got)
	}
	kinds := FamilyOf(cipher.KindBacon).Kinds()
	if len(kinds) != 1 || kinds[0] != cipher.KindBacon {
		t.Errorf("unexpected kinds %v", kinds)
	}
	if FamilyAll.Label() != "All" || FamilyOf(cipher.KindRailFence).Label() != "Rail Fence" {
		t.Error("unexpected labels")
	}
	if len(Families()) != 14 {
		t.Errorf("expected 14 families, got %d", len(Families()))
	}
}
