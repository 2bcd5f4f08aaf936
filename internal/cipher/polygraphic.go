package cipher

import "strings"

const (
	// polybiusAlphabet is the 5x5 square shared by Playfair and Polybius, j omitted.
	polybiusAlphabet = "abcdefghiklmnopqrstuvwxyz"
	polybiusDigits   = "12345"
)

// baconCodes maps each a/b quintet to its letter. Every letter, i/j and u/v
// included, has a distinct code.
var baconCodes = func() map[string]byte {
	codes := make(map[string]byte, AlphabetSize)
	for i := 0; i < AlphabetSize; i++ {
		var sb strings.Builder
		for bit := 4; bit >= 0; bit-- {
			if i&(1<<bit) != 0 {
				sb.WriteByte('b')
			} else {
				sb.WriteByte('a')
			}
		}
		codes[sb.String()] = byte('a' + i)
	}
	return codes
}()

// playfairTable is a 5x5 key square stored row-major.
type playfairTable [25]byte

// newPlayfairTable lays out the deduplicated key letters (j folded into i)
// followed by the remaining alphabet.
func newPlayfairTable(key string) (playfairTable, [26]int) {
	var table playfairTable
	var index [26]int
	for i := range index {
		index[i] = -1
	}
	n := 0
	place := func(c byte) {
		if c == 'j' {
			c = 'i'
		}
		if index[c-'a'] >= 0 {
			return
		}
		index[c-'a'] = n
		table[n] = c
		n++
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !isLetter(c) {
			continue
		}
		place(c | 0x20)
	}
	for i := 0; i < len(polybiusAlphabet); i++ {
		place(polybiusAlphabet[i])
	}
	index['j'-'a'] = index['i'-'a']
	return table, index
}

// playfairClean keeps letters only, lowercased, with j folded into i.
func playfairClean(text string) []byte {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !isLetter(c) {
			continue
		}
		c |= 0x20
		if c == 'j' {
			c = 'i'
		}
		out = append(out, c)
	}
	return out
}

// DecryptPlayfair decrypts the letters of text digraph by digraph. The
// output is lowercase letters only; a trailing unpaired letter is dropped.
func DecryptPlayfair(text string, key WordKey) string {
	table, index := newPlayfairTable(string(key))
	clean := playfairClean(text)
	out := make([]byte, 0, len(clean))
	for i := 0; i+1 < len(clean); i += 2 {
		p1, p2 := index[clean[i]-'a'], index[clean[i+1]-'a']
		row1, col1 := p1/5, p1%5
		row2, col2 := p2/5, p2%5
		switch {
		case row1 == row2:
			out = append(out, table[row1*5+(col1+4)%5], table[row2*5+(col2+4)%5])
		case col1 == col2:
			out = append(out, table[((row1+4)%5)*5+col1], table[((row2+4)%5)*5+col2])
		default:
			out = append(out, table[row1*5+col2], table[row2*5+col1])
		}
	}
	return string(out)
}

// DecryptPolybius strips spaces and reads the rest as coordinate pairs on the
// fixed square. Pairs that are not two digits in 1..5 are skipped.
func DecryptPolybius(text string) string {
	clean := strings.ReplaceAll(text, " ", "")
	out := make([]byte, 0, len(clean)/2)
	for i := 0; i+1 < len(clean); i += 2 {
		row := strings.IndexByte(polybiusDigits, clean[i])
		col := strings.IndexByte(polybiusDigits, clean[i+1])
		if row < 0 || col < 0 {
			continue
		}
		out = append(out, polybiusAlphabet[row*5+col])
	}
	return string(out)
}

// DecryptBacon reads the letters of text as 5-character a/b groups and
// matches each group exactly against the code table. Groups with no match,
// and a short final group, produce nothing.
func DecryptBacon(text string) string {
	clean := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if isLetter(text[i]) {
			clean = append(clean, text[i])
		}
	}
	out := make([]byte, 0, len(clean)/5)
	for i := 0; i+5 <= len(clean); i += 5 {
		if letter, ok := baconCodes[string(clean[i:i+5])]; ok {
			out = append(out, letter)
		}
	}
	return string(out)
}
