package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sprawl-dev/sprawl/core/scan"
	"github.com/sprawl-dev/sprawl/internal/apiclient"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errNetwork = errors.New("connection refused")

func testConfig() *contract.Config {
	return &contract.Config{
		PollInterval: time.Millisecond,
		TreeLimit:    10,
		TopFiles:     5,
		Precision:    2,
		Output:       schema.TextOut,
	}
}

func sampleResults(scanID int64) schema.ScanResults {
	return schema.ScanResults{
		ScanID: scanID,
		Metrics: []schema.FileDebtRecord{
			{Path: "src/a.go", LinesOfCode: 10, SprawlScore: 1.7, SprawlLevel: schema.SevereLevel},
			{Path: "src/b.go", LinesOfCode: 5, SprawlScore: 0.2, SprawlLevel: schema.CleanLevel},
			{Path: "docs/readme.md", LinesOfCode: 3, SprawlScore: 0.1, SprawlLevel: schema.CleanLevel},
		},
	}
}

func TestRunScan(t *testing.T) {
	scanner := &contract.MockScannerClient{}
	scanner.On("StartScan", mock.Anything, int64(3)).Return(schema.StartScanResponse{ScanID: 7, Status: schema.PendingStatus}, nil)
	scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.RunningStatus}, nil).Once()
	scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.CompletedStatus}, nil).Once()
	scanner.On("GetScanResults", mock.Anything, int64(7)).Return(sampleResults(7), nil).Once()

	ctx := WithSuppressHeader(context.Background())
	r, err := RunScan(ctx, testConfig(), Clients{Scanner: scanner}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), r.ScanID)
	assert.Equal(t, 3, r.Summary.FileCount)
	assert.Equal(t, 2, r.TotalTopLevel)
	require.NotNil(t, r.Job)
	assert.Equal(t, schema.CompletedStatus, r.Job.Status)
	scanner.AssertExpectations(t)
}

func TestRunScanUnauthorized(t *testing.T) {
	cfg := testConfig()
	cfg.RequireToken = true

	scanner := &contract.MockScannerClient{}
	_, err := RunScan(WithSuppressHeader(context.Background()), cfg, Clients{Scanner: scanner}, 3)
	assert.ErrorIs(t, err, scan.ErrUnauthorized)
	scanner.AssertNotCalled(t, "StartScan", mock.Anything, mock.Anything)
}

func TestRunScanFailed(t *testing.T) {
	scanner := &contract.MockScannerClient{}
	scanner.On("StartScan", mock.Anything, int64(3)).Return(schema.StartScanResponse{ScanID: 7}, nil)
	scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.FailedStatus}, nil).Once()

	_, err := RunScan(WithSuppressHeader(context.Background()), testConfig(), Clients{Scanner: scanner}, 3)
	assert.ErrorIs(t, err, scan.ErrScanFailed)
}

func TestWatchScan(t *testing.T) {
	repos := &contract.MockRepositoryClient{}
	repos.On("GetRepository", mock.Anything, int64(3)).Return(schema.RepositoryDetail{
		Repository: schema.Repository{ID: 3},
		Scans:      []schema.ScanJob{{ID: 7, Status: schema.CompletedStatus, CreatedAt: time.Unix(100, 0)}},
	}, nil)
	scanner := &contract.MockScannerClient{}
	scanner.On("GetScanResults", mock.Anything, int64(7)).Return(sampleResults(7), nil).Once()

	r, err := WatchScan(WithSuppressHeader(context.Background()), testConfig(), Clients{Scanner: scanner, Repos: repos}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), r.ScanID)
	scanner.AssertNotCalled(t, "StartScan", mock.Anything, mock.Anything)
}

func TestGetScanReport(t *testing.T) {
	t.Run("builds report", func(t *testing.T) {
		scanner := &contract.MockScannerClient{}
		scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.CompletedStatus}, nil).Once()
		scanner.On("GetScanResults", mock.Anything, int64(7)).Return(sampleResults(7), nil).Once()

		cfg := testConfig()
		cfg.TreeLimit = 1
		r, err := GetScanReport(context.Background(), cfg, Clients{Scanner: scanner}, 7)
		require.NoError(t, err)
		assert.Equal(t, 3, r.Summary.FileCount)
		require.NotNil(t, r.Tree)
		assert.Len(t, r.Tree.Children, 1)
		assert.Equal(t, "src", r.Tree.Children[0].Name)
		assert.Equal(t, 1, r.HiddenCount)
		require.NotNil(t, r.Job)
		assert.Equal(t, schema.CompletedStatus, r.Job.Status)
	})

	t.Run("fetch failure", func(t *testing.T) {
		scanner := &contract.MockScannerClient{}
		scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.CompletedStatus}, nil).Once()
		scanner.On("GetScanResults", mock.Anything, int64(7)).Return(schema.ScanResults{}, errNetwork).Once()

		_, err := GetScanReport(context.Background(), testConfig(), Clients{Scanner: scanner}, 7)
		var rf *scan.ResultsFetchError
		require.ErrorAs(t, err, &rf)
		assert.ErrorIs(t, err, errNetwork)
	})

	t.Run("not completed", func(t *testing.T) {
		for _, status := range []schema.ScanStatus{schema.PendingStatus, schema.RunningStatus} {
			scanner := &contract.MockScannerClient{}
			scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: status}, nil).Once()

			_, err := GetScanReport(context.Background(), testConfig(), Clients{Scanner: scanner}, 7)
			var nc *scan.NotCompletedError
			require.ErrorAs(t, err, &nc, status)
			assert.ErrorIs(t, err, scan.ErrNotCompleted)
			assert.Equal(t, status, nc.Job.Status)
			scanner.AssertNotCalled(t, "GetScanResults", mock.Anything, mock.Anything)
		}
	})

	t.Run("failed", func(t *testing.T) {
		scanner := &contract.MockScannerClient{}
		scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.FailedStatus}, nil).Once()

		_, err := GetScanReport(context.Background(), testConfig(), Clients{Scanner: scanner}, 7)
		assert.ErrorIs(t, err, scan.ErrScanFailed)
		scanner.AssertNotCalled(t, "GetScanResults", mock.Anything, mock.Anything)
	})

	t.Run("status transport error", func(t *testing.T) {
		scanner := &contract.MockScannerClient{}
		scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{}, errNetwork).Once()

		_, err := GetScanReport(context.Background(), testConfig(), Clients{Scanner: scanner}, 7)
		var te *scan.TransportError
		assert.ErrorAs(t, err, &te)
		assert.ErrorIs(t, err, errNetwork)
	})

	t.Run("unauthorized", func(t *testing.T) {
		cfg := testConfig()
		cfg.RequireToken = true
		_, err := GetScanReport(context.Background(), cfg, Clients{Scanner: &contract.MockScannerClient{}}, 7)
		assert.ErrorIs(t, err, scan.ErrUnauthorized)
	})
}

// TestReportOfRunningScanIsNotCached runs against the real HTTP client, whose
// results cache must only ever hold the payload of a completed scan.
func TestReportOfRunningScanIsNotCached(t *testing.T) {
	var statusCalls, resultsCalls atomic.Int32
	var completed atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scans/5", func(w http.ResponseWriter, _ *http.Request) {
		job := schema.ScanJob{ID: 5, Status: schema.RunningStatus}
		if statusCalls.Add(1) > 1 {
			completed.Store(true)
			job.Status = schema.CompletedStatus
		}
		_ = json.NewEncoder(w).Encode(job)
	})
	mux.HandleFunc("GET /scans/5/results", func(w http.ResponseWriter, _ *http.Request) {
		resultsCalls.Add(1)
		results := schema.ScanResults{ScanID: 5, Metrics: []schema.FileDebtRecord{
			{Path: "src/a.ts", LinesOfCode: 10, SprawlScore: 0.5, SprawlLevel: schema.CleanLevel},
		}}
		if completed.Load() {
			results.Metrics = append(results.Metrics,
				schema.FileDebtRecord{Path: "src/b.ts", LinesOfCode: 200, SprawlScore: 1.9, SprawlLevel: schema.SevereLevel})
		}
		_ = json.NewEncoder(w).Encode(results)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL, 4)
	require.NoError(t, err)
	cl := Clients{Scanner: client, Repos: client}

	_, err = GetScanReport(context.Background(), testConfig(), cl, 5)
	require.ErrorIs(t, err, scan.ErrNotCompleted)
	assert.Zero(t, resultsCalls.Load(), "no results fetch before completion")

	r, err := AwaitReport(context.Background(), testConfig(), cl, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Summary.FileCount)
	assert.Equal(t, int32(1), resultsCalls.Load())

	// Completed results are served from the cache afterwards
	r, err = GetScanReport(context.Background(), testConfig(), cl, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Summary.FileCount)
	assert.Equal(t, int32(1), resultsCalls.Load())
}

func TestAwaitReport(t *testing.T) {
	scanner := &contract.MockScannerClient{}
	scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.PendingStatus}, nil).Once()
	scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{ID: 7, Status: schema.CompletedStatus}, nil).Once()
	scanner.On("GetScanResults", mock.Anything, int64(7)).Return(sampleResults(7), nil).Once()

	var seen []schema.ScanStatus
	r, err := AwaitReport(context.Background(), testConfig(), Clients{Scanner: scanner}, 7, func(job schema.ScanJob) {
		seen = append(seen, job.Status)
	})
	require.NoError(t, err)
	assert.Equal(t, []schema.ScanStatus{schema.PendingStatus, schema.CompletedStatus}, seen)
	require.NotNil(t, r.Job)
	assert.Equal(t, schema.CompletedStatus, r.Job.Status)
	assert.Equal(t, 3, r.Summary.FileCount)
	scanner.AssertNumberOfCalls(t, "GetScanResults", 1)
}

func TestAwaitReportFailures(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		cfg := testConfig()
		cfg.RequireToken = true
		scanner := &contract.MockScannerClient{}
		_, err := AwaitReport(context.Background(), cfg, Clients{Scanner: scanner}, 7, nil)
		assert.ErrorIs(t, err, scan.ErrUnauthorized)
		scanner.AssertNotCalled(t, "GetScanStatus", mock.Anything, mock.Anything)
	})

	t.Run("transport", func(t *testing.T) {
		scanner := &contract.MockScannerClient{}
		scanner.On("GetScanStatus", mock.Anything, int64(7)).Return(schema.ScanJob{}, errNetwork).Once()
		_, err := AwaitReport(context.Background(), testConfig(), Clients{Scanner: scanner}, 7, nil)
		var te *scan.TransportError
		assert.ErrorAs(t, err, &te)
		scanner.AssertNotCalled(t, "GetScanResults", mock.Anything, mock.Anything)
	})
}

func TestNewClients(t *testing.T) {
	cfg := testConfig()
	cfg.APIURL = "http://localhost:3000/api"
	cfg.CacheSize = 4
	cl, err := NewClients(cfg)
	require.NoError(t, err)
	assert.NotNil(t, cl.Scanner)
	assert.NotNil(t, cl.Repos)

	cfg.CacheSize = 0
	_, err = NewClients(cfg)
	assert.Error(t, err)
}

func TestSearchGithubRepos(t *testing.T) {
	lang := "Go"
	desc := "Debt dashboard"
	repos := &contract.MockRepositoryClient{}
	repos.On("ListGithubRepos", mock.Anything).Return([]schema.GithubRepo{
		{ID: 11, Name: "sprawl", FullName: "me/sprawl", Language: &lang},
		{ID: 12, Name: "web", FullName: "me/web", Description: &desc},
		{ID: 13, Name: "notes", FullName: "me/notes"},
	}, nil)
	cl := Clients{Repos: repos}
	ctx := context.Background()

	all, err := SearchGithubRepos(ctx, cl, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byLang, err := SearchGithubRepos(ctx, cl, "go")
	require.NoError(t, err)
	require.Len(t, byLang, 1)
	assert.Equal(t, int64(11), byLang[0].ID)

	byDesc, err := SearchGithubRepos(ctx, cl, "DASHBOARD")
	require.NoError(t, err)
	require.Len(t, byDesc, 1)
	assert.Equal(t, int64(12), byDesc[0].ID)
}

func TestResolveGithubRepo(t *testing.T) {
	repos := []schema.GithubRepo{{ID: 11, FullName: "me/sprawl"}, {ID: 12, FullName: "me/web"}}

	r, err := ResolveGithubRepo(repos, "12")
	require.NoError(t, err)
	assert.Equal(t, "me/web", r.FullName)

	r, err = ResolveGithubRepo(repos, " Me/Sprawl ")
	require.NoError(t, err)
	assert.Equal(t, int64(11), r.ID)

	_, err = ResolveGithubRepo(repos, "me/missing")
	assert.ErrorIs(t, err, ErrGithubRepoNotFound)
}

func TestAddRepository(t *testing.T) {
	gh := []schema.GithubRepo{{ID: 11, Name: "sprawl", FullName: "me/sprawl", Owner: "me", CloneURL: "https://github.com/me/sprawl.git"}}

	t.Run("added", func(t *testing.T) {
		repos := &contract.MockRepositoryClient{}
		repos.On("ListGithubRepos", mock.Anything).Return(gh, nil)
		repos.On("AddRepository", mock.Anything, schema.AddRepositoryRequest{
			GithubRepoID: "11", Name: "sprawl", FullName: "me/sprawl", Owner: "me", CloneURL: "https://github.com/me/sprawl.git",
		}).Return(schema.Repository{ID: 2, FullName: "me/sprawl"}, nil)

		added, err := AddRepository(context.Background(), Clients{Repos: repos}, "me/sprawl")
		require.NoError(t, err)
		assert.Equal(t, int64(2), added.ID)
		repos.AssertExpectations(t)
	})

	t.Run("already registered", func(t *testing.T) {
		repos := &contract.MockRepositoryClient{}
		repos.On("ListGithubRepos", mock.Anything).Return(gh, nil)
		repos.On("AddRepository", mock.Anything, mock.Anything).Return(schema.Repository{}, &apiclient.StatusError{Code: 409})

		_, err := AddRepository(context.Background(), Clients{Repos: repos}, "11")
		assert.ErrorIs(t, err, apiclient.ErrConflict)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("unknown reference", func(t *testing.T) {
		repos := &contract.MockRepositoryClient{}
		repos.On("ListGithubRepos", mock.Anything).Return(gh, nil)

		_, err := AddRepository(context.Background(), Clients{Repos: repos}, "42")
		assert.ErrorIs(t, err, ErrGithubRepoNotFound)
		repos.AssertNotCalled(t, "AddRepository", mock.Anything, mock.Anything)
	})
}

func TestDecodeResults(t *testing.T) {
	t.Run("results object", func(t *testing.T) {
		r, err := DecodeResults([]byte(`{"scanId":9,"metrics":[{"filePath":"a.go","sprawlScore":1.1,"sprawlLevel":"mild"}]}`))
		require.NoError(t, err)
		assert.Equal(t, int64(9), r.ScanID)
		require.Len(t, r.Metrics, 1)
		assert.Equal(t, schema.MildLevel, r.Metrics[0].SprawlLevel)
	})

	t.Run("bare records", func(t *testing.T) {
		r, err := DecodeResults([]byte("  [{\"filePath\":\"a.go\"},{\"filePath\":\"b.go\"}]\n"))
		require.NoError(t, err)
		assert.Zero(t, r.ScanID)
		assert.Len(t, r.Metrics, 2)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeResults([]byte("  \n"))
		assert.ErrorIs(t, err, ErrEmptyResults)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := DecodeResults([]byte("{not json"))
		assert.Error(t, err)
	})
}

func TestExecuteSummarize(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"filePath":"src/a.go","loc":10,"sprawlScore":1.7,"sprawlLevel":"severe"}]`), 0o644))

	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(dir, "report.json")
	require.NoError(t, ExecuteSummarize(context.Background(), cfg, input))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overallLevel": "severe"`)

	_, err = LoadResults(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
