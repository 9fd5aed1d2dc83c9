// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/sprawl-dev/sprawl/schema"
)

// ScannerClient defines the operations of the remote scanner service.
// This allows the scan lifecycle to be tested without a running service.
type ScannerClient interface {
	// StartScan submits a new scan for a repository.
	StartScan(ctx context.Context, repositoryID int64) (schema.StartScanResponse, error)

	// GetScanStatus returns the current snapshot of a scan.
	GetScanStatus(ctx context.Context, scanID int64) (schema.ScanJob, error)

	// GetScanResults returns the per-file records of a completed scan.
	GetScanResults(ctx context.Context, scanID int64) (schema.ScanResults, error)
}

// RepositoryClient defines the operations of the repository store.
type RepositoryClient interface {
	// ListGithubRepos lists repositories visible on the linked GitHub account.
	ListGithubRepos(ctx context.Context) ([]schema.GithubRepo, error)

	// ListRepositories lists imported repositories.
	ListRepositories(ctx context.Context) ([]schema.Repository, error)

	// GetRepository returns an imported repository together with its scans.
	GetRepository(ctx context.Context, id int64) (schema.RepositoryDetail, error)

	// AddRepository imports a GitHub repository.
	AddRepository(ctx context.Context, req schema.AddRepositoryRequest) (schema.Repository, error)

	// DeleteRepository removes an imported repository.
	DeleteRepository(ctx context.Context, id int64) error
}

// Authorizer reports whether the caller may use the scanner service.
// Credentials stay opaque; only the yes/no signal crosses this boundary.
type Authorizer interface {
	Authorized() bool
}

// TokenAuthorizer authorizes based on the presence of a bearer token.
type TokenAuthorizer struct {
	Token    string
	Required bool
}

var _ Authorizer = TokenAuthorizer{} // Compile-time check

// Authorized implements the Authorizer interface.
func (a TokenAuthorizer) Authorized() bool {
	return !a.Required || a.Token != ""
}
