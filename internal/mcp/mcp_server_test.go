package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/contract"
	mcp_internal "github.com/sprawl-dev/sprawl/internal/mcp"
	"github.com/sprawl-dev/sprawl/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{PollInterval: time.Millisecond, TreeLimit: 40, TopFiles: 10, Precision: 2}
}

func results(scanID int64) schema.ScanResults {
	return schema.ScanResults{
		ScanID: scanID,
		Metrics: []schema.FileDebtRecord{
			{Path: "src/a.go", LinesOfCode: 10, SprawlScore: 1.7, SprawlLevel: schema.SevereLevel},
			{Path: "docs/b.md", LinesOfCode: 5, SprawlScore: 0.2, SprawlLevel: schema.CleanLevel},
		},
	}
}

func callTool(t *testing.T, cl core.Clients, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), cl)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		tool string
		want string
	}{
		{"start_scan", "repository_id is required"},
		{"watch_scan", "repository_id is required"},
		{"get_scan_report", "scan_id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			res := callTool(t, core.Clients{}, tt.tool, map[string]any{})
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tt.want)
		})
	}
}

func TestStartScanTool(t *testing.T) {
	scanner := &contract.MockScannerClient{}
	scanner.On("StartScan", mock.Anything, int64(3)).Return(schema.StartScanResponse{ScanID: 7, Status: schema.PendingStatus}, nil)
	scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.CompletedStatus}, nil).Once()
	scanner.On("GetScanResults", mock.Anything, int64(7)).Return(results(7), nil).Once()

	res := callTool(t, core.Clients{Scanner: scanner}, "start_scan", map[string]any{"repository_id": 3.0, "limit": 1.0})
	require.False(t, res.IsError, text(res))

	var report schema.ScanReport
	require.NoError(t, json.Unmarshal([]byte(text(res)), &report))
	assert.Equal(t, int64(7), report.ScanID)
	assert.Equal(t, 2, report.Summary.FileCount)
	require.NotNil(t, report.Tree)
	assert.Len(t, report.Tree.Children, 1, "limit argument prunes the hierarchy")
	assert.Equal(t, 1, report.HiddenCount)
}

func TestStartScanToolFailure(t *testing.T) {
	scanner := &contract.MockScannerClient{}
	scanner.On("StartScan", mock.Anything, int64(3)).Return(schema.StartScanResponse{ScanID: 7}, nil)
	scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.FailedStatus}, nil).Once()

	res := callTool(t, core.Clients{Scanner: scanner}, "start_scan", map[string]any{"repository_id": 3.0})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "scan failed")
}

func TestGetScanReportTool(t *testing.T) {
	scanner := &contract.MockScannerClient{}
	scanner.On("GetScanStatus", mock.Anything, int64(9)).Return(schema.ScanJob{ID: 9, Status: schema.CompletedStatus}, nil).Once()
	scanner.On("GetScanResults", mock.Anything, int64(9)).Return(results(9), nil).Once()

	res := callTool(t, core.Clients{Scanner: scanner}, "get_scan_report", map[string]any{"scan_id": 9.0})
	require.False(t, res.IsError, text(res))
	assert.Contains(t, text(res), `"scanId": 9`)
	assert.Contains(t, text(res), `"overallLevel": "mild"`)

	running := &contract.MockScannerClient{}
	running.On("GetScanStatus", mock.Anything, int64(9)).Return(schema.ScanJob{ID: 9, Status: schema.RunningStatus}, nil).Once()
	res = callTool(t, core.Clients{Scanner: running}, "get_scan_report", map[string]any{"scan_id": 9.0})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "RUNNING")
	running.AssertNotCalled(t, "GetScanResults", mock.Anything, mock.Anything)
}

func TestListRepositoriesTool(t *testing.T) {
	repos := &contract.MockRepositoryClient{}
	repos.On("ListRepositories", mock.Anything).Return([]schema.Repository{{ID: 1, FullName: "me/sprawl"}}, nil).Once()

	res := callTool(t, core.Clients{Repos: repos}, "list_repositories", nil)
	require.False(t, res.IsError)
	assert.Contains(t, text(res), "me/sprawl")

	failing := &contract.MockRepositoryClient{}
	failing.On("ListRepositories", mock.Anything).Return([]schema.Repository(nil), errors.New("boom"))
	res = callTool(t, core.Clients{Repos: failing}, "list_repositories", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "boom")
}

func TestSearchGithubReposTool(t *testing.T) {
	repos := &contract.MockRepositoryClient{}
	repos.On("ListGithubRepos", mock.Anything).Return([]schema.GithubRepo{
		{ID: 11, Name: "sprawl", FullName: "me/sprawl"},
		{ID: 12, Name: "web", FullName: "me/web"},
	}, nil)

	res := callTool(t, core.Clients{Repos: repos}, "search_github_repos", map[string]any{"query": "web"})
	require.False(t, res.IsError)
	assert.Contains(t, text(res), "me/web")
	assert.NotContains(t, text(res), "me/sprawl")
}
