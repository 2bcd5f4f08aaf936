package cipher

// Monoalphabetic and polyalphabetic substitutions. All of them work on ASCII
// letters only; every other byte, including UTF-8 continuation bytes, is
// copied through and does not advance a key stream.

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func letterBase(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return 'a'
	}
	return 'A'
}

// DecryptCaesar shifts each letter backward by shift.
func DecryptCaesar(text string, shift int) string {
	shift = ((shift % AlphabetSize) + AlphabetSize) % AlphabetSize
	out := []byte(text)
	for i, c := range out {
		if !isLetter(c) {
			continue
		}
		base := letterBase(c)
		out[i] = (c-base+byte(AlphabetSize-shift))%AlphabetSize + base
	}
	return string(out)
}

// DecryptROT13 is Caesar with a fixed shift of 13.
func DecryptROT13(text string) string {
	return DecryptCaesar(text, 13)
}

// DecryptAtbash mirrors each letter across the alphabet.
func DecryptAtbash(text string) string {
	out := []byte(text)
	for i, c := range out {
		if !isLetter(c) {
			continue
		}
		base := letterBase(c)
		out[i] = base + (AlphabetSize - 1) - (c - base)
	}
	return string(out)
}

// DecryptAffine applies y = a⁻¹·(x + b) mod 26 to every letter.
func DecryptAffine(text string, key AffineKey) string {
	out := []byte(text)
	for i, c := range out {
		if !isLetter(c) {
			continue
		}
		base := letterBase(c)
		x := int(c - base)
		out[i] = base + byte(key.inv*(x+key.b)%AlphabetSize)
	}
	return string(out)
}

// DecryptVigenere subtracts key[i mod len] from the i-th letter.
func DecryptVigenere(text string, key KeyStream) string {
	out := []byte(text)
	k := 0
	for i, c := range out {
		if !isLetter(c) {
			continue
		}
		base := letterBase(c)
		shift := byte(key[k%len(key)])
		out[i] = (c-base+AlphabetSize-shift)%AlphabetSize + base
		k++
	}
	return string(out)
}

// DecryptBeaufort computes key[i] - x mod 26 per letter. Beaufort is its own
// inverse, so the same function encrypts.
func DecryptBeaufort(text string, key KeyStream) string {
	out := []byte(text)
	k := 0
	for i, c := range out {
		if !isLetter(c) {
			continue
		}
		base := letterBase(c)
		shift := byte(key[k%len(key)])
		out[i] = (shift+AlphabetSize-(c-base))%AlphabetSize + base
		k++
	}
	return string(out)
}

// DecryptHybrid undoes an Atbash+Vigenère layering: Atbash first, then
// Vigenère with key.
func DecryptHybrid(text string, key KeyStream) string {
	return DecryptVigenere(DecryptAtbash(text), key)
}
