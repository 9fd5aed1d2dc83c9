package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	cl      core.Clients
}

// configFor clones the base config and applies the optional limit argument.
func (h *toolHandler) configFor(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.TreeLimit = min(l, contract.MaxTreeLimit)
	}
	return cfg
}

func (h *toolHandler) handleStartScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("repository_id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("repository_id is required and must be positive"), nil
	}

	r, err := core.RunScan(core.WithSuppressHeader(ctx), h.configFor(request), h.cl, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}
	return jsonResult(r)
}

func (h *toolHandler) handleWatchScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("repository_id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("repository_id is required and must be positive"), nil
	}

	r, err := core.WatchScan(core.WithSuppressHeader(ctx), h.configFor(request), h.cl, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("watch failed: %v", err)), nil
	}
	return jsonResult(r)
}

func (h *toolHandler) handleGetScanReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("scan_id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("scan_id is required and must be positive"), nil
	}

	r, err := core.GetScanReport(ctx, h.configFor(request), h.cl, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(r)
}

func (h *toolHandler) handleListRepositories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repos, err := h.cl.Repos.ListRepositories(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return jsonResult(repos)
}

func (h *toolHandler) handleSearchGithubRepos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repos, err := core.SearchGithubRepos(ctx, h.cl, request.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(repos)
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
