package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/RowanDark/0xcrack/internal/history"
	"github.com/RowanDark/0xcrack/internal/topk"
)

// WriteRuns lists history summaries as an aligned table, or as JSON when
// format is FormatJSON.
func WriteRuns(w io.Writer, format Format, runs []history.Summary) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	case FormatText:
	default:
		return fmt.Errorf("run listings support text and json, not %q", format)
	}

	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tFAMILY\tKEYS\tBEST\tSCORE\tPREVIEW")
	for _, run := range runs {
		best := "-"
		if run.BestCipher != "" {
			best = fmt.Sprintf("%s (%s)", run.BestCipher.Label(), run.BestParams)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Family.Label(),
			run.Evaluated,
			best,
			run.BestScore,
			topk.Preview(run.BestPreview, 40),
		)
	}
	return tw.Flush()
}
