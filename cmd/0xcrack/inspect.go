package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDetectCmd(g *globalOptions) *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "detect [text|-]",
		Short: "Suggest cipher families from the shape of a ciphertext",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(g.stdin, args, file, "")
			if err != nil {
				return err
			}
			a, err := g.newApp(appOptions{noHistory: true})
			if err != nil {
				return err
			}
			defer a.close()

			detections, err := a.svc.Detect(cmd.Context(), text)
			if err != nil {
				return err
			}
			if asJSON {
				return writeIndentedJSON(g.stdout, detections)
			}
			if len(detections) == 0 {
				_, err := fmt.Fprintln(g.stdout, "No cipher family fits this text.")
				return err
			}
			tw := tabwriter.NewWriter(g.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FAMILY\tCONFIDENCE\tOPERATION\tREASON")
			for _, d := range detections {
				fmt.Fprintf(tw, "%s\t%.0f%%\t%s\t%s\n", d.Family.Label(), d.Confidence*100, d.Operation, d.Reasoning)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read the text from a file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newCiphersCmd(g *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ciphers",
		Short: "List the cipher catalog and the size of each key space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newApp(appOptions{noHistory: true})
			if err != nil {
				return err
			}
			defer a.close()

			infos := a.svc.Ciphers()
			if asJSON {
				return writeIndentedJSON(g.stdout, infos)
			}
			tw := tabwriter.NewWriter(g.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tLABEL\tKEYS\tOPERATIONS")
			for _, info := range infos {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", info.Number, info.Name, info.Label, info.KeySpace, strings.Join(info.Operations, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
