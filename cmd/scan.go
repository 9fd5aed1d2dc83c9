package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

// scanCmd starts a scan and follows it to its report.
var scanCmd = &cobra.Command{
	Use:   "scan <repository-id>",
	Short: "Start a debt scan of a registered repository and print its report.",
	Long: `The scan command submits a new scan for the repository, polls its status until
it finishes, then fetches the per-file results once and prints a report.

The report contains the aggregate summary, the ranked list of files and a
pruned folder hierarchy. Press Ctrl+C to stop polling.

Examples:
  # Scan repository 3 and show the default report
  sprawl scan 3

  # Keep only 10 top-level folders and show every file
  sprawl scan 3 --limit 10 --top 0

  # Export the results as JSON
  sprawl scan 3 --output json --output-file scan.json`,
	Args:    idArg("repository-id"),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		repositoryID, _ := parseID("repository-id", args[0])
		if err := core.ExecuteScan(rootCtx, cfg, repositoryID); err != nil {
			contract.LogFatal("Cannot run scan", err)
		}
	},
}
