package cipher

import (
	"strings"
	"testing"
)

const sampleCiphertext = "bxrworn, dodcx iy lbks !"

func TestDecryptCaesar(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		shift    int
		expected string
	}{
		{"classic", "Khoor, Zruog!", 3, "Hello, World!"},
		{"zero shift", "unchanged", 0, "unchanged"},
		{"wraps", "abc", 1, "zab"},
		{"rot13", "Uryyb", 13, "Hello"},
		{"non ascii passes", "héllo", 1, "gékkn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecryptCaesar(tt.input, tt.shift); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCaesarRoundTrip(t *testing.T) {
	text := "TheQuickBrownFoxJumpsOverTheLazyDog"
	for shift := 0; shift < AlphabetSize; shift++ {
		once := DecryptCaesar(text, shift)
		back := DecryptCaesar(once, (AlphabetSize-shift)%AlphabetSize)
		if back != text {
			t.Fatalf("shift %d: expected %q, got %q", shift, text, back)
		}
		if EncryptCaesar(once, shift) != text {
			t.Fatalf("shift %d: EncryptCaesar did not invert DecryptCaesar", shift)
		}
	}
	if DecryptROT13(DecryptROT13(text)) != text {
		t.Fatal("ROT13 applied twice should be the identity")
	}
}

func TestAtbash(t *testing.T) {
	if got := DecryptAtbash(sampleCiphertext); got != "ycidlim, wlwxc rb oyph !" {
		t.Errorf("unexpected atbash output %q", got)
	}
	if got := DecryptAtbash("Zyx"); got != "Abc" {
		t.Errorf("expected case to be preserved, got %q", got)
	}

	text := "Mirror Mirror, on the wall."
	if DecryptAtbash(DecryptAtbash(text)) != text {
		t.Error("atbash should be self-inverse")
	}
}

func TestDecryptVigenere(t *testing.T) {
	key, err := ParseKeyStream("lemon")
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}

	if got := DecryptVigenere("Lxfopv ef rnhr", key); got != "Attack at dawn" {
		t.Errorf("expected %q, got %q", "Attack at dawn", got)
	}

	// Punctuation must not advance the key.
	if got := DecryptVigenere("L-x-f", key); got != "A-t-t" {
		t.Errorf("expected key index to skip separators, got %q", got)
	}

	text := "Keys only advance on letters, 123!"
	if DecryptVigenere(EncryptVigenere(text, key), key) != text {
		t.Error("vigenere round trip failed")
	}
}

func TestBeaufortReciprocal(t *testing.T) {
	keys := []KeyStream{{0}, {3}, {1, 2, 3}, {25, 0, 13, 7, 19}}
	texts := []string{"Defend the east wall", sampleCiphertext, "UPPER lower Mixed"}

	for _, key := range keys {
		for _, text := range texts {
			once := DecryptBeaufort(text, key)
			if twice := DecryptBeaufort(once, key); twice != text {
				t.Errorf("key %s: expected %q after two passes, got %q", key.Letters(), text, twice)
			}
		}
	}
}

func TestAffineRoundTrip(t *testing.T) {
	text := "Affine Cipher, Every Key!"
	for _, a := range AffineMultipliers {
		for b := 0; b < AlphabetSize; b++ {
			key, err := NewAffineKey(a, b)
			if err != nil {
				t.Fatalf("a=%d b=%d: %v", a, b, err)
			}
			if got := DecryptAffine(EncryptAffine(text, key), key); got != text {
				t.Fatalf("a=%d b=%d: expected %q, got %q", a, b, text, got)
			}
		}
	}
}

func TestAffineMultipliersAreCoprime(t *testing.T) {
	if len(AffineMultipliers) != 12 {
		t.Fatalf("expected 12 multipliers, got %d", len(AffineMultipliers))
	}
	for _, a := range AffineMultipliers {
		inv := modInverse(a, AlphabetSize)
		if a*inv%AlphabetSize != 1 {
			t.Errorf("a=%d: inverse %d is wrong", a, inv)
		}
	}
	for _, a := range []int{0, 2, 13, 26} {
		if _, err := NewAffineKey(a, 0); err == nil {
			t.Errorf("a=%d should be rejected", a)
		}
	}
}

func TestRailFence(t *testing.T) {
	if got := DecryptRailFence("WECRLTEERDSOEEFEAOCAIVDEN", 3); got != "WEAREDISCOVEREDFLEEATONCE" {
		t.Errorf("unexpected rail fence decryption %q", got)
	}

	text := "rail fence keeps, every character!"
	for rails := 2; rails <= 15; rails++ {
		if got := DecryptRailFence(EncryptRailFence(text, rails), rails); got != text {
			t.Errorf("rails %d: expected %q, got %q", rails, text, got)
		}
	}

	if DecryptRailFence("short", 40) != "short" {
		t.Error("more rails than characters should leave text unchanged")
	}
}

func TestRailFenceHugeRailCount(t *testing.T) {
	const rails = 2_000_000_000
	if got := DecryptRailFence("hello", rails); got != "hello" {
		t.Errorf("expected identity, got %q", got)
	}
	if got := EncryptRailFence("hello", rails); got != "hello" {
		t.Errorf("expected identity, got %q", got)
	}
	if got := len(railPattern(5, rails)); got != 5 {
		t.Errorf("expected 5 rails after capping, got %d", got)
	}
	if got := len(railPattern(0, rails)); got != 2 {
		t.Errorf("expected 2 rails for empty text, got %d", got)
	}
}

func TestColumnar(t *testing.T) {
	tests := []struct {
		name string
		key  ColumnKey
		text string
	}{
		{"sequential", SequentialColumnKey(4), "columnar transposition"},
		{"keyword", ColumnKey("zebras"), "we are discovered flee at once"},
		{"repeated key letters", ColumnKey("abba"), "stable order for ties"},
		{"wider than text", SequentialColumnKey(10), "tiny"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := EncryptColumnar(tt.text, tt.key)
			if len(enc) != len(tt.text) {
				t.Fatalf("expected length %d, got %d", len(tt.text), len(enc))
			}
			if got := DecryptColumnar(enc, tt.key); got != tt.text {
				t.Errorf("expected %q, got %q", tt.text, got)
			}
		})
	}

	// Two columns, ascending: "abcde" is laid out as ab/cd/e and read a,c,e,b,d.
	if got := DecryptColumnar("acebd", SequentialColumnKey(2)); got != "abcde" {
		t.Errorf("expected %q, got %q", "abcde", got)
	}
}

func TestColumnOrderIsStable(t *testing.T) {
	order := columnOrder(ColumnKey("baab"))
	expected := []int{1, 2, 0, 3}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, order)
		}
	}
}

func TestDecryptPlayfair(t *testing.T) {
	got := DecryptPlayfair("BMODZBXDNABEKUDMUIXMMOUVIF", WordKey("playfair example"))
	if got != "hidethegoldinthetrexestump" {
		t.Errorf("unexpected playfair output %q", got)
	}

	if got := DecryptPlayfair("abc", WordKey("key")); len(got) != 2 {
		t.Errorf("trailing unpaired letter should be dropped, got %q", got)
	}
}

func TestPlayfairTable(t *testing.T) {
	table, index := newPlayfairTable("Jumbo")
	if string(table[:5]) != "iumbo" {
		t.Errorf("expected key letters first with j folded to i, got %q", string(table[:5]))
	}
	if index['j'-'a'] != index['i'-'a'] {
		t.Error("j should share i's cell")
	}
	seen := map[byte]bool{}
	for _, c := range table {
		if seen[c] {
			t.Fatalf("letter %c appears twice", c)
		}
		seen[c] = true
	}
}

func TestDecryptPolybius(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"23 15 31 31 34", "hello"},
		{"2315313134", "hello"},
		{"11 55", "az"},
		{"16 23", "h"},
		{sampleCiphertext, ""},
	}

	for _, tt := range tests {
		if got := DecryptPolybius(tt.input); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestDecryptBacon(t *testing.T) {
	if got := DecryptBacon("aabbb aabaa ababb ababb abbba"); got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
	if got := DecryptBacon("abaab abaaa"); got != "ji" {
		t.Errorf("expected distinct i/j codes, got %q", got)
	}
	if got := DecryptBacon("aaaa"); got != "" {
		t.Errorf("short chunk should produce nothing, got %q", got)
	}
	if len(baconCodes) != AlphabetSize {
		t.Errorf("expected %d codes, got %d", AlphabetSize, len(baconCodes))
	}
}

func TestDecryptReverse(t *testing.T) {
	if got := DecryptReverse("abc, déf"); got != "féd ,cba" {
		t.Errorf("unexpected reverse output %q", got)
	}
}

func TestHybridRoundTrip(t *testing.T) {
	key := KeyStream{7, 0, 19}
	text := "Layered ciphers, layered keys"
	if got := DecryptHybrid(EncryptHybrid(text, key), key); got != text {
		t.Errorf("expected %q, got %q", text, got)
	}
	if DecryptHybrid(text, key) != DecryptVigenere(DecryptAtbash(text), key) {
		t.Error("hybrid should be atbash followed by vigenere")
	}
}

func TestTransformsPreserveLength(t *testing.T) {
	affine, _ := NewAffineKey(5, 8)
	for name, fn := range map[string]func(string) string{
		"caesar":    func(s string) string { return DecryptCaesar(s, 7) },
		"atbash":    DecryptAtbash,
		"vigenere":  func(s string) string { return DecryptVigenere(s, KeyStream{1, 2}) },
		"beaufort":  func(s string) string { return DecryptBeaufort(s, KeyStream{1, 2}) },
		"railfence": func(s string) string { return DecryptRailFence(s, 4) },
		"affine":    func(s string) string { return DecryptAffine(s, affine) },
		"columnar":  func(s string) string { return DecryptColumnar(s, SequentialColumnKey(5)) },
		"reverse":   DecryptReverse,
		"hybrid":    func(s string) string { return DecryptHybrid(s, KeyStream{3}) },
	} {
		if got := fn(sampleCiphertext); len(got) != len(sampleCiphertext) {
			t.Errorf("%s: length changed from %d to %d", name, len(sampleCiphertext), len(got))
		}
		if got := fn(sampleCiphertext); strings.Count(got, ",") != 1 || strings.Count(got, "!") != 1 {
			t.Errorf("%s: punctuation was altered: %q", name, got)
		}
	}
}

func TestDecryptDispatch(t *testing.T) {
	affine, _ := NewAffineKey(3, 4)
	tests := []struct {
		kind Kind
		key  Key
		want string
	}{
		{KindCaesar, ShiftKey(3), DecryptCaesar(sampleCiphertext, 3)},
		{KindROT13, NoKey{Kind: KindROT13}, DecryptROT13(sampleCiphertext)},
		{KindAtbash, nil, DecryptAtbash(sampleCiphertext)},
		{KindVigenere, KeyStream{1, 2}, DecryptVigenere(sampleCiphertext, KeyStream{1, 2})},
		{KindBeaufort, KeyStream{4}, DecryptBeaufort(sampleCiphertext, KeyStream{4})},
		{KindHybrid, KeyStream{4}, DecryptHybrid(sampleCiphertext, KeyStream{4})},
		{KindRailFence, RailKey(3), DecryptRailFence(sampleCiphertext, 3)},
		{KindAffine, affine, DecryptAffine(sampleCiphertext, affine)},
		{KindColumnar, SequentialColumnKey(3), DecryptColumnar(sampleCiphertext, SequentialColumnKey(3))},
		{KindPlayfair, WordKey("key"), DecryptPlayfair(sampleCiphertext, WordKey("key"))},
		{KindPolybius, nil, DecryptPolybius(sampleCiphertext)},
		{KindBacon, nil, DecryptBacon(sampleCiphertext)},
		{KindReverse, nil, DecryptReverse(sampleCiphertext)},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := Decrypt(tt.kind, sampleCiphertext, tt.key)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := Decrypt(KindCaesar, "x", KeyStream{1}); err == nil {
		t.Error("expected key mismatch error")
	}
	if _, err := Decrypt(Kind("enigma"), "x", ShiftKey(1)); err == nil {
		t.Error("expected unknown kind error")
	}
}
