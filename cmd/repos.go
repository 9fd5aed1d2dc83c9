package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

// reposCmd is the parent command for repository management.
var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Manage the repositories known to the scanner service.",
	Long: `The repos command lists, registers and removes repositories.

Examples:
  # List registered repositories
  sprawl repos list

  # Register a GitHub repository by full name
  sprawl repos add octo/widgets`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var reposListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List registered repositories.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReposList(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list repositories", err)
		}
	},
}

var reposShowCmd = &cobra.Command{
	Use:     "show <repository-id>",
	Short:   "Show a repository and its scans.",
	Args:    idArg("repository-id"),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, _ := parseID("repository-id", args[0])
		if err := core.ExecuteReposShow(rootCtx, cfg, id); err != nil {
			contract.LogFatal("Cannot show repository", err)
		}
	},
}

var reposAddCmd = &cobra.Command{
	Use:   "add <github-id-or-full-name>",
	Short: "Register a GitHub repository for scanning.",
	Long: `The add command looks the repository up among the GitHub repositories visible
to the scanner service and registers it.

Examples:
  sprawl repos add octo/widgets
  sprawl repos add 123456`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteReposAdd(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot add repository", err)
		}
	},
}

var reposDeleteCmd = &cobra.Command{
	Use:     "delete <repository-id>",
	Short:   "Remove a registered repository.",
	Args:    idArg("repository-id"),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, _ := parseID("repository-id", args[0])
		if err := core.ExecuteReposDelete(rootCtx, cfg, id); err != nil {
			contract.LogFatal("Cannot delete repository", err)
		}
	},
}

var reposGithubCmd = &cobra.Command{
	Use:     "github",
	Short:   "List GitHub repositories available for registration.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReposGithub(rootCtx, cfg, viper.GetString("search")); err != nil {
			contract.LogFatal("Cannot list GitHub repositories", err)
		}
	},
}
