package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

// summarizeCmd builds a report from a results file on disk.
var summarizeCmd = &cobra.Command{
	Use:   "summarize <results.json>",
	Short: "Build a report from a saved results file.",
	Long: `The summarize command reads scan results from a JSON file and prints a report
without contacting the scanner service. The file may hold a results object or
a bare array of file records.

Examples:
  # Summarize a saved results payload
  sprawl summarize results.json

  # Summarize and write CSV
  sprawl summarize results.json --output csv --output-file files.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSummarize(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot summarize results", err)
		}
	},
}
