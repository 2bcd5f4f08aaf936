package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RowanDark/0xcrack/internal/crack"
)

// RenderCSV generates a CSV export of the ranked candidates followed by the
// run summary as comment lines.
func RenderCSV(r *crack.Result) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{"Rank", "Score", "Cipher", "Params", "Plaintext"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write CSV header: %w", err)
	}
	for i, c := range r.Candidates {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(c.Score),
			c.CipherType(),
			c.Params,
			strings.ReplaceAll(c.Plaintext, "\n", " "),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush CSV: %w", err)
	}

	summaryLines := []string{
		"",
		"# Summary",
		fmt.Sprintf("# Run: %s", r.ID),
		fmt.Sprintf("# Family: %s", r.Family.Label()),
		fmt.Sprintf("# Keys Tried: %d", r.Evaluated),
		fmt.Sprintf("# Duration: %s", formatDuration(r.Duration)),
		fmt.Sprintf("# Exact: %t", r.Exact),
		fmt.Sprintf("# Started: %s", r.StartedAt.Format("2006-01-02 15:04:05")),
	}
	for _, line := range summaryLines {
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return []byte(buf.String()), nil
}

// WriteCSV writes CSV output to a writer.
func WriteCSV(w io.Writer, r *crack.Result) error {
	data, err := RenderCSV(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
