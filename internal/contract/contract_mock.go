package contract

import (
	"context"

	"github.com/sprawl-dev/sprawl/schema"
	"github.com/stretchr/testify/mock"
)

// MockScannerClient is a mock implementation of ScannerClient for testing.
type MockScannerClient struct {
	mock.Mock
}

var _ ScannerClient = &MockScannerClient{} // Compile-time check

// StartScan implements the ScannerClient interface.
func (m *MockScannerClient) StartScan(ctx context.Context, repositoryID int64) (schema.StartScanResponse, error) {
	args := m.Called(ctx, repositoryID)
	return args.Get(0).(schema.StartScanResponse), args.Error(1)
}

// GetScanStatus implements the ScannerClient interface.
func (m *MockScannerClient) GetScanStatus(ctx context.Context, scanID int64) (schema.ScanJob, error) {
	args := m.Called(ctx, scanID)
	return args.Get(0).(schema.ScanJob), args.Error(1)
}

// GetScanResults implements the ScannerClient interface.
func (m *MockScannerClient) GetScanResults(ctx context.Context, scanID int64) (schema.ScanResults, error) {
	args := m.Called(ctx, scanID)
	return args.Get(0).(schema.ScanResults), args.Error(1)
}

// MockRepositoryClient is a mock implementation of RepositoryClient for testing.
type MockRepositoryClient struct {
	mock.Mock
}

var _ RepositoryClient = &MockRepositoryClient{} // Compile-time check

// ListGithubRepos implements the RepositoryClient interface.
func (m *MockRepositoryClient) ListGithubRepos(ctx context.Context) ([]schema.GithubRepo, error) {
	args := m.Called(ctx)
	repos, _ := args.Get(0).([]schema.GithubRepo)
	return repos, args.Error(1)
}

// ListRepositories implements the RepositoryClient interface.
func (m *MockRepositoryClient) ListRepositories(ctx context.Context) ([]schema.Repository, error) {
	args := m.Called(ctx)
	repos, _ := args.Get(0).([]schema.Repository)
	return repos, args.Error(1)
}

// GetRepository implements the RepositoryClient interface.
func (m *MockRepositoryClient) GetRepository(ctx context.Context, id int64) (schema.RepositoryDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.RepositoryDetail), args.Error(1)
}

// AddRepository implements the RepositoryClient interface.
func (m *MockRepositoryClient) AddRepository(ctx context.Context, req schema.AddRepositoryRequest) (schema.Repository, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(schema.Repository), args.Error(1)
}

// DeleteRepository implements the RepositoryClient interface.
func (m *MockRepositoryClient) DeleteRepository(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
