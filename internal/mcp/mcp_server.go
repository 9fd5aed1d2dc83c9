// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

// NewMCPServer initializes and configures the Sprawl MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, cl core.Clients) *server.MCPServer {
	s := server.NewMCPServer(
		"Sprawl Debt Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		cl:      cl,
	}

	// --- 1. Tool: start_scan ---
	s.AddTool(mcp.NewTool("start_scan",
		mcp.WithDescription("Start a debt scan of a registered repository and wait for its report."),
		mcp.WithNumber("repository_id", mcp.Description("Id of the registered repository to scan."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of top-level entries kept in the hierarchy.")),
	), h.handleStartScan)

	// --- 2. Tool: watch_scan ---
	s.AddTool(mcp.NewTool("watch_scan",
		mcp.WithDescription("Follow the latest scan of a repository to its report without starting a new one."),
		mcp.WithNumber("repository_id", mcp.Description("Id of the registered repository."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of top-level entries kept in the hierarchy.")),
	), h.handleWatchScan)

	// --- 3. Tool: get_scan_report ---
	s.AddTool(mcp.NewTool("get_scan_report",
		mcp.WithDescription("Build the report of an already completed scan."),
		mcp.WithNumber("scan_id", mcp.Description("Id of the completed scan."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of top-level entries kept in the hierarchy.")),
	), h.handleGetScanReport)

	// --- 4. Tool: list_repositories ---
	s.AddTool(mcp.NewTool("list_repositories",
		mcp.WithDescription("List repositories registered with the scanner service."),
	), h.handleListRepositories)

	// --- 5. Tool: search_github_repos ---
	s.AddTool(mcp.NewTool("search_github_repos",
		mcp.WithDescription("List GitHub repositories available for registration."),
		mcp.WithString("query", mcp.Description("Case-insensitive filter on name, description and language.")),
	), h.handleSearchGithubRepos)

	return s
}

// StartMCPServer starts the Sprawl MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, cl core.Clients) error {
	s := NewMCPServer(baseCfg, cl)
	return server.ServeStdio(s)
}
