package main

import (
	"os"

	"github.com/aretw0/mcdata"
	"github.com/aretw0/mcdata/internal/cli"
	"github.com/aretw0/mcdata/internal/presentation/tui"
	"github.com/aretw0/mcdata/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint [root...]",
	Short: "Report problems in the loaded roots",
	Long: `Loads every configured root plus the ones given as arguments and prints
their diagnostics. Exits with status 1 when at least one problem is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []mcdata.Option
		reportFile, _ := cmd.Flags().GetString("report-file")
		var store *file.Store
		if reportFile != "" {
			store = file.New(reportFile)
			opts = append(opts, mcdata.WithReporter(store))
		}

		ws, cfg, _, err := openWorkspace(cmd.Context(), args, opts...)
		if err != nil {
			return err
		}
		if store != nil {
			if err := store.Flush(cmd.Context()); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		entries := ws.Diagnostics()
		if cfg.Format != cli.FormatText {
			if err := cli.Encode(out, cfg.Format, entries); err != nil {
				return err
			}
		} else {
			interactive := tui.IsTerminal(os.Stdout) && out == os.Stdout
			if interactive {
				tui.PrintBanner(out)
			}
			runner := mcdata.NewRunner()
			runner.Output = out
			runner.Headless = !interactive
			if interactive {
				runner.Renderer = tui.NewRenderer()
			}
			if _, err := runner.Run(ws); err != nil {
				return err
			}
		}

		if len(entries) > 0 {
			return errProblems
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().String("report-file", "", "Also write the diagnostics as JSON to this file")
	rootCmd.AddCommand(lintCmd)
}
