package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RowanDark/0xcrack/internal/cipher"
	"github.com/RowanDark/0xcrack/internal/service"
)

type transformDirection int

const (
	transformDecrypt transformDirection = iota
	transformEncrypt
)

type transformOptions struct {
	cipher string
	key    string
	shift  int
	rails  int
	a      int
	b      int
	file   string
}

func newTransformCmd(g *globalOptions, dir transformDirection) *cobra.Command {
	opts := &transformOptions{}
	use, short := "decrypt", "Decrypt text with a known key"
	if dir == transformEncrypt {
		use, short = "encrypt", "Encrypt text with a known key"
	}

	cmd := &cobra.Command{
		Use:   use + " [text|-]",
		Short: short,
		Long: short + `.

  0xcrack ` + use + ` --cipher caesar --shift 3 "text"
  0xcrack ` + use + ` --cipher vigenere --key lemon "text"
  0xcrack ` + use + ` --cipher railfence --rails 3 "text"
  0xcrack ` + use + ` --cipher affine --a 5 --b 8 "text"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, g, opts, dir, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.cipher, "cipher", "c", "", "Cipher name")
	f.StringVarP(&opts.key, "key", "k", "", "Key word (vigenere, beaufort, hybrid, playfair, columnar)")
	f.IntVar(&opts.shift, "shift", 0, "Caesar shift")
	f.IntVar(&opts.rails, "rails", 0, "Rail Fence rail count")
	f.IntVar(&opts.a, "a", 0, "Affine multiplier")
	f.IntVar(&opts.b, "b", 0, "Affine offset")
	f.StringVar(&opts.file, "file", "", "Read the text from a file")
	_ = cmd.MarkFlagRequired("cipher")
	return cmd
}

func runTransform(cmd *cobra.Command, g *globalOptions, opts *transformOptions, dir transformDirection, args []string) error {
	kind, err := cipher.ParseKind(opts.cipher)
	if err != nil {
		return err
	}
	text, err := readInput(g.stdin, args, opts.file, "")
	if err != nil {
		return err
	}

	params := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("key") {
		params["key"] = opts.key
	}
	if flags.Changed("shift") {
		params["shift"] = opts.shift
	}
	if flags.Changed("rails") {
		params["rails"] = opts.rails
	}
	if flags.Changed("a") {
		params["a"] = opts.a
	}
	if flags.Changed("b") {
		params["b"] = opts.b
	}

	op := cipher.DecryptOperationName(kind)
	if dir == transformEncrypt {
		op = cipher.EncryptOperationName(kind)
		if _, ok := cipher.GetOperation(op); !ok {
			return fmt.Errorf("%s has no encrypt transform", kind.Label())
		}
	}

	a, err := g.newApp(appOptions{noHistory: true})
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.svc.Transform(cmd.Context(), service.TransformRequest{Operation: op, Config: params, Input: text})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.stdout, out)
	return err
}
