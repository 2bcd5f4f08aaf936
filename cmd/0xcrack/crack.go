package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RowanDark/0xcrack/internal/config"
	"github.com/RowanDark/0xcrack/internal/reporter"
	"github.com/RowanDark/0xcrack/internal/service"
)

// sampleCiphertext is cracked when no input is given.
const sampleCiphertext = "bxrworn, dodcx iy lbks !"

type crackOptions struct {
	family    string
	top       int
	workers   int
	format    string
	out       string
	file      string
	fold      bool
	history   string
	noHistory bool
	timeout   time.Duration
}

func newCrackCmd(g *globalOptions) *cobra.Command {
	opts := &crackOptions{}
	cmd := &cobra.Command{
		Use:   "crack [ciphertext|-]",
		Short: "Brute-force a ciphertext and rank the decryptions",
		Long: `Brute-force a ciphertext across one cipher family or all of them.

The ciphertext comes from the argument, from --file, or from stdin when the
argument is "-". Without any of these the built-in sample is cracked.

Families: all, caesar, rot13, atbash, vigenere, railfence, affine, beaufort,
columnar, playfair, polybius, bacon, reverse, hybrid (or menu numbers 0-13).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrack(cmd, g, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.family, "family", "c", "all", "Cipher family to try")
	f.IntVarP(&opts.top, "top", "k", 0, "Number of candidates to keep (default from config)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "Worker goroutines (default from config)")
	f.StringVarP(&opts.format, "format", "f", "", "Report format: "+formatList())
	f.StringVarP(&opts.out, "out", "o", "", "Write the report to a file instead of stdout")
	f.StringVar(&opts.file, "file", "", "Read the ciphertext from a file")
	f.BoolVar(&opts.fold, "fold", false, "Fold accented and full-width characters to ASCII first")
	f.StringVar(&opts.history, "history", "", "History database path (default from config)")
	f.BoolVar(&opts.noHistory, "no-history", false, "Do not record this run")
	f.DurationVar(&opts.timeout, "timeout", 0, "Abort the search after this long")
	return cmd
}

func formatList() string {
	names := make([]string, 0, len(reporter.Formats()))
	for _, f := range reporter.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func runCrack(cmd *cobra.Command, g *globalOptions, opts *crackOptions, args []string) error {
	ciphertext, err := readInput(g.stdin, args, opts.file, sampleCiphertext)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.format, opts.out)
	if err != nil {
		return err
	}
	if format == reporter.FormatDOCX && opts.out == "" {
		return errors.New("docx reports need --out")
	}

	a, err := g.newApp(appOptions{
		noHistory: opts.noHistory,
		mutate: func(cfg *config.Config) {
			if opts.top > 0 {
				cfg.TopK = opts.top
			}
			if opts.workers > 0 {
				cfg.Workers = opts.workers
			}
			if opts.history != "" {
				cfg.HistoryPath = opts.history
			}
		},
	})
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel func()
		ctx, cancel = contextWithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	result, err := a.svc.Crack(ctx, service.CrackRequest{
		Ciphertext: ciphertext,
		Family:     opts.family,
		Fold:       opts.fold,
	})
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := reporter.WriteFile(opts.out, format, result); err != nil {
			return err
		}
		fmt.Fprintf(g.stderr, "report written to %s\n", opts.out)
		return nil
	}
	return reporter.Render(g.stdout, format, result)
}

// resolveFormat picks the explicit format, else the output file's extension,
// else text.
func resolveFormat(explicit, out string) (reporter.Format, error) {
	if explicit != "" {
		return reporter.ParseFormat(explicit)
	}
	if out != "" {
		return reporter.FormatFromPath(out), nil
	}
	return reporter.FormatText, nil
}

// readInput returns the first argument, the named file, stdin for "-", or
// fallback. A single trailing line break from files and stdin is dropped.
func readInput(stdin io.Reader, args []string, file, fallback string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("give the text as an argument or --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return trimLineBreak(string(data)), nil
	case len(args) > 0 && args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return trimLineBreak(string(data)), nil
	case len(args) > 0:
		return args[0], nil
	case fallback != "":
		return fallback, nil
	default:
		return "", errors.New("no input text provided. Pass it as an argument, with --file, or \"-\" for stdin")
	}
}

func trimLineBreak(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
