package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the sprawl MCP server",
	Long:    `Launch an MCP server that allows AI agents to start scans and read debt reports via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		cl, err := core.NewClients(cfg)
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, cl)
	},
}
