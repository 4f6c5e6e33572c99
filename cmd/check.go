package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"docsync/internal/app"
	"docsync/internal/formatting"
)

var (
	checkOutputFormat string
	checkConfigPath   string
	checkDebug        bool
	checkNoColor      bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Resolve every route once and report the result",
	Long: `Runs a single reconcile pass against an in-memory store and prints the
resolved documents and any failures. The configured store, file watcher and
status server are not used, so check is safe to run next to 'docsync serve'.

The exit code is 0 when every route resolved, 2 when the source or any route
failed and 1 when the configuration could not be loaded.

Examples:
  docsync check
  docsync check --config-path ./deploy -o json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	checkCmd.Flags().StringVar(&checkConfigPath, "config-path", "", "Custom configuration directory path (default ~/.config/docsync)")
	checkCmd.Flags().BoolVar(&checkDebug, "debug", false, "Enable general debug logging")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "Disable colored table output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatter, err := formatting.New(formatting.Options{
		Format: formatting.OutputFormat(checkOutputFormat),
		Color:  !checkNoColor && isTerminal(cmd.OutOrStdout()),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := app.RunCheck(ctx, app.NewConfig(checkDebug, checkConfigPath))
	if err != nil {
		return err
	}

	if err := formatter.FormatReport(cmd.OutOrStdout(), *report); err != nil {
		return err
	}

	if !report.Tick.OK() {
		return &CheckFailedError{
			SourceFailed: report.Tick.SourceError != nil,
			Failures:     len(report.Tick.Failures),
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
