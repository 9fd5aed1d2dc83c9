package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

// watchCmd follows the latest scan of a repository.
var watchCmd = &cobra.Command{
	Use:   "watch <repository-id>",
	Short: "Follow the latest scan of a repository without starting a new one.",
	Long: `The watch command looks up the most recent scan of the repository and polls it
until it finishes. A scan that already finished is reported right away.

Examples:
  # Follow whatever scan is running for repository 3
  sprawl watch 3

  # Poll more slowly
  sprawl watch 3 --poll-interval 5s`,
	Args:    idArg("repository-id"),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		repositoryID, _ := parseID("repository-id", args[0])
		if err := core.ExecuteWatch(rootCtx, cfg, repositoryID); err != nil {
			contract.LogFatal("Cannot watch scan", err)
		}
	},
}
