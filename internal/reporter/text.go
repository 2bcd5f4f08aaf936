package reporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/RowanDark/0xcrack/internal/crack"
)

const rule = "════════════════════════════════════════════════════════════════════════"

// WriteText prints the ranked table followed by the best candidate in full.
func WriteText(w io.Writer, r *crack.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Ciphertext: %q\n", r.Ciphertext)
	fmt.Fprintf(bw, "Family: %s | Keys tried: %d | Time: %s\n", r.Family.Label(), r.Evaluated, formatDuration(r.Duration))

	if len(r.Candidates) == 0 {
		fmt.Fprintln(bw, "\nNo results found.")
		return bw.Flush()
	}

	if r.Exact {
		fmt.Fprintln(bw, "\nExact match: every word of the best candidate is a known word.")
	} else {
		fmt.Fprintln(bw, "\nNo exact match found. Best candidates:")
	}

	fmt.Fprintln(bw, "\nTOP RESULTS")
	fmt.Fprintln(bw, rule)
	for i, c := range r.Candidates {
		fmt.Fprintf(bw, "  #%-2d | Score: %-4d | Type: %-15s | Params: %s\n", i+1, c.Score, c.CipherType(), c.Params)
		fmt.Fprintf(bw, "       └─ %s\n\n", c.Preview)
	}

	best := r.Candidates[0]
	fmt.Fprintln(bw, "BEST CANDIDATE")
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "Cipher: %s | Params: %s\n", best.CipherType(), best.Params)
	fmt.Fprintf(bw, "Score: %d\n", best.Score)
	fmt.Fprintln(bw, "\nDecrypted text:")
	fmt.Fprintln(bw, strings.TrimRight(best.Plaintext, "\n"))
	return bw.Flush()
}
