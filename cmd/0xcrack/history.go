package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RowanDark/0xcrack/internal/config"
	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/history"
	"github.com/RowanDark/0xcrack/internal/reporter"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded crack runs",
	}
	cmd.PersistentFlags().StringVar(&path, "history", "", "History database path (default from config)")

	open := func() (*app, error) {
		return g.newApp(appOptions{mutate: func(cfg *config.Config) {
			if path != "" {
				cfg.HistoryPath = path
			}
		}})
	}

	var (
		family string
		limit  int
		format string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := history.ListOptions{Limit: limit}
			if strings.TrimSpace(family) != "" {
				f, err := crack.ParseFamily(family)
				if err != nil {
					return err
				}
				opts.Family = f
			}
			fmtValue, err := reporter.ParseFormat(format)
			if err != nil {
				return err
			}

			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			runs, err := a.svc.Runs(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return reporter.WriteRuns(g.stdout, fmtValue, runs)
		},
	}
	list.Flags().StringVar(&family, "family", "", "Only runs of this family")
	list.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	list.Flags().StringVar(&format, "format", "text", "Output format (text, json)")

	var showFormat string
	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print the report of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtValue, err := reporter.ParseFormat(showFormat)
			if err != nil {
				return err
			}
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.svc.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return reporter.Render(g.stdout, fmtValue, result)
		},
	}
	show.Flags().StringVar(&showFormat, "format", "text", "Report format")

	remove := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete one run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.svc.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(g.stdout, "deleted %s\n", args[0])
			return err
		},
	}

	cmd.AddCommand(list, show, remove)
	return cmd
}
