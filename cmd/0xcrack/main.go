package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const productName = "0xcrack"
const cliBanner = productName + ": classical cipher brute-force cracker"

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   productName,
		Short: cliBanner,
		Long: cliBanner + `

Tries every key of thirteen classical ciphers against a ciphertext and ranks
the decryptions by how much they look like English.

  0xcrack crack "bxrworn, dodcx iy lbks !"
  0xcrack crack --family vigenere --top 10 --out report.md < secret.txt
  0xcrack decrypt --cipher caesar --shift 3 "Khoor"
  0xcrack serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: ~/.0xcrack/config.yml then ./0xcrack.yml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newCrackCmd(opts),
		newTransformCmd(opts, transformDecrypt),
		newTransformCmd(opts, transformEncrypt),
		newDetectCmd(opts),
		newCiphersCmd(opts),
		newHistoryCmd(opts),
		newServeCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(opts.stdout, "%s %s\n", productName, version)
			return err
		},
	}
}
