package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

// resultsCmd prints the report of a completed scan.
var resultsCmd = &cobra.Command{
	Use:   "results <scan-id>",
	Short: "Print the report of a completed scan.",
	Long: `The results command fetches the results of a scan that already completed and
prints the same report as the scan command.

Examples:
  # Show the report of scan 42
  sprawl results 42

  # Export every file to Parquet
  sprawl results 42 --top 0 --output parquet --output-file debt.parquet`,
	Args:    idArg("scan-id"),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		scanID, _ := parseID("scan-id", args[0])
		if err := core.ExecuteResults(rootCtx, cfg, scanID); err != nil {
			contract.LogFatal("Cannot fetch results", err)
		}
	},
}
