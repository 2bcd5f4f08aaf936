package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/RowanDark/0xcrack/internal/crack"
)

// RenderMarkdown builds a Markdown summary of r.
func RenderMarkdown(r *crack.Result) string {
	var b strings.Builder

	b.WriteString("# 0xcrack Report\n\n")
	fmt.Fprintf(&b, "- **Run:** `%s`\n", r.ID)
	fmt.Fprintf(&b, "- **Ciphertext:** `%s`\n", escapeCode(r.Ciphertext))
	fmt.Fprintf(&b, "- **Family:** %s\n", r.Family.Label())
	fmt.Fprintf(&b, "- **Keys tried:** %d\n", r.Evaluated)
	fmt.Fprintf(&b, "- **Duration:** %s\n", formatDuration(r.Duration))
	fmt.Fprintf(&b, "- **Exact match:** %t\n\n", r.Exact)

	if len(r.Candidates) == 0 {
		b.WriteString("No results found.\n")
		return b.String()
	}

	b.WriteString("## Top Results\n\n")
	b.WriteString("| # | Score | Cipher | Params | Preview |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for i, c := range r.Candidates {
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s |\n", i+1, c.Score, escapeCell(c.CipherType()), escapeCell(c.Params), escapeCell(c.Preview))
	}

	best := r.Candidates[0]
	b.WriteString("\n## Best Candidate\n\n")
	fmt.Fprintf(&b, "%s, %s, score %d.\n\n", best.CipherType(), best.Params, best.Score)
	b.WriteString("```\n")
	b.WriteString(best.Plaintext)
	b.WriteString("\n```\n")
	return b.String()
}

// WriteMarkdown writes the Markdown report to w.
func WriteMarkdown(w io.Writer, r *crack.Result) error {
	_, err := io.WriteString(w, RenderMarkdown(r))
	return err
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func escapeCode(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
