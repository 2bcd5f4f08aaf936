package cipher

import "sort"

// Transpositions move characters without changing them, so they work on
// runes and keep every character, letters or not.

// railPattern returns, for each rail, the plaintext positions that the
// zig-zag visits on that rail, in ascending order. Rails past the text length
// stay empty, so the count is capped at max(2, n).
func railPattern(n, rails int) [][]int {
	rails = max(2, min(rails, n))
	fence := make([][]int, rails)
	rail, step := 0, 1
	for i := 0; i < n; i++ {
		fence[rail] = append(fence[rail], i)
		if rail == 0 {
			step = 1
		} else if rail == rails-1 {
			step = -1
		}
		rail += step
	}
	return fence
}

// DecryptRailFence refills the zig-zag rail by rail with the ciphertext and
// reads it back in plaintext order. Fewer than two rails is the identity.
func DecryptRailFence(text string, rails int) string {
	if rails <= 1 {
		return text
	}
	chars := []rune(text)
	out := make([]rune, len(chars))
	read := 0
	for _, positions := range railPattern(len(chars), rails) {
		for _, pos := range positions {
			out[pos] = chars[read]
			read++
		}
	}
	return string(out)
}

// columnOrder returns column indices sorted by their key character. Equal
// characters keep their original left-to-right order.
func columnOrder(key ColumnKey) []int {
	order := make([]int, len(key))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return key[order[i]] < key[order[j]]
	})
	return order
}

// DecryptColumnar reads the ciphertext column by column, in key order, back
// into row-major positions. Cells past the end of a short last row are
// skipped.
func DecryptColumnar(text string, key ColumnKey) string {
	cols := len(key)
	if cols == 0 {
		return text
	}
	chars := []rune(text)
	n := len(chars)
	rows := (n + cols - 1) / cols
	out := make([]rune, n)
	read := 0
	for _, col := range columnOrder(key) {
		for row := 0; row < rows; row++ {
			pos := row*cols + col
			if pos < n {
				out[pos] = chars[read]
				read++
			}
		}
	}
	return string(out)
}

// DecryptReverse reverses the character order.
func DecryptReverse(text string) string {
	chars := []rune(text)
	for i, j := 0, len(chars)-1; i < j; i, j = i+1, j-1 {
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars)
}
