package cipher

// Forward transforms. Each one is the exact inverse of its Decrypt
// counterpart, which is what the round-trip tests and the encrypt surfaces
// rely on.

// EncryptCaesar shifts each letter forward by shift.
func EncryptCaesar(text string, shift int) string {
	return DecryptCaesar(text, AlphabetSize-((shift%AlphabetSize)+AlphabetSize)%AlphabetSize)
}

// EncryptAffine applies y = a·x - b mod 26, the inverse of DecryptAffine.
func EncryptAffine(text string, key AffineKey) string {
	out := []byte(text)
	for i, c := range out {
		if !isLetter(c) {
			continue
		}
		base := letterBase(c)
		x := int(c - base)
		y := ((key.a*x-key.b)%AlphabetSize + AlphabetSize) % AlphabetSize
		out[i] = base + byte(y)
	}
	return string(out)
}

// EncryptVigenere adds key[i mod len] to the i-th letter.
func EncryptVigenere(text string, key KeyStream) string {
	out := []byte(text)
	k := 0
	for i, c := range out {
		if !isLetter(c) {
			continue
		}
		base := letterBase(c)
		out[i] = (c-base+byte(key[k%len(key)]))%AlphabetSize + base
		k++
	}
	return string(out)
}

// EncryptBeaufort is DecryptBeaufort; the cipher is reciprocal.
func EncryptBeaufort(text string, key KeyStream) string {
	return DecryptBeaufort(text, key)
}

// EncryptHybrid layers Vigenère then Atbash so DecryptHybrid recovers text.
func EncryptHybrid(text string, key KeyStream) string {
	return DecryptAtbash(EncryptVigenere(text, key))
}

// EncryptRailFence writes text along the zig-zag and reads it rail by rail.
func EncryptRailFence(text string, rails int) string {
	if rails <= 1 {
		return text
	}
	chars := []rune(text)
	out := make([]rune, 0, len(chars))
	for _, positions := range railPattern(len(chars), rails) {
		for _, pos := range positions {
			out = append(out, chars[pos])
		}
	}
	return string(out)
}

// EncryptColumnar writes text row-major under the key and reads it column by
// column in key order.
func EncryptColumnar(text string, key ColumnKey) string {
	cols := len(key)
	if cols == 0 {
		return text
	}
	chars := []rune(text)
	n := len(chars)
	rows := (n + cols - 1) / cols
	out := make([]rune, 0, n)
	for _, col := range columnOrder(key) {
		for row := 0; row < rows; row++ {
			if pos := row*cols + col; pos < n {
				out = append(out, chars[pos])
			}
		}
	}
	return string(out)
}
