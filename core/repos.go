package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sprawl-dev/sprawl/internal/apiclient"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/internal/outwriter"
	"github.com/sprawl-dev/sprawl/schema"
)

// ErrGithubRepoNotFound is returned when a GitHub reference matches nothing.
var ErrGithubRepoNotFound = errors.New("github repository not found")

// SearchGithubRepos lists GitHub repositories whose name, description or
// language contains the query. An empty query returns everything.
func SearchGithubRepos(ctx context.Context, cl Clients, query string) ([]schema.GithubRepo, error) {
	repos, err := cl.Repos.ListGithubRepos(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list GitHub repositories: %w", err)
	}
	var matched []schema.GithubRepo
	for _, r := range repos {
		if contract.MatchesSearch(query, r.Name, r.FullName, derefString(r.Description), derefString(r.Language)) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// ResolveGithubRepo finds a GitHub repository by numeric id or full name.
func ResolveGithubRepo(repos []schema.GithubRepo, ref string) (schema.GithubRepo, error) {
	ref = strings.TrimSpace(ref)
	id, idErr := strconv.ParseInt(ref, 10, 64)
	for _, r := range repos {
		if idErr == nil && r.ID == id {
			return r, nil
		}
		if strings.EqualFold(r.FullName, ref) {
			return r, nil
		}
	}
	return schema.GithubRepo{}, fmt.Errorf("%w: %q", ErrGithubRepoNotFound, ref)
}

// AddRepository imports the GitHub repository identified by ref.
func AddRepository(ctx context.Context, cl Clients, ref string) (schema.Repository, error) {
	repos, err := cl.Repos.ListGithubRepos(ctx)
	if err != nil {
		return schema.Repository{}, fmt.Errorf("failed to list GitHub repositories: %w", err)
	}
	gh, err := ResolveGithubRepo(repos, ref)
	if err != nil {
		return schema.Repository{}, err
	}

	added, err := cl.Repos.AddRepository(ctx, schema.AddRepositoryRequest{
		GithubRepoID: strconv.FormatInt(gh.ID, 10),
		Name:         gh.Name,
		FullName:     gh.FullName,
		Owner:        gh.Owner,
		IsPrivate:    gh.IsPrivate,
		HTMLURL:      gh.HTMLURL,
		CloneURL:     gh.CloneURL,
	})
	if errors.Is(err, apiclient.ErrConflict) {
		return schema.Repository{}, fmt.Errorf("repository %s is already registered: %w", gh.FullName, err)
	}
	if err != nil {
		return schema.Repository{}, fmt.Errorf("failed to add repository %s: %w", gh.FullName, err)
	}
	return added, nil
}

// ExecuteReposList prints the registered repositories.
func ExecuteReposList(ctx context.Context, cfg *contract.Config) error {
	cl, err := NewClients(cfg)
	if err != nil {
		return err
	}
	repos, err := cl.Repos.ListRepositories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}
	return outwriter.NewOutWriter().WriteRepositories(repos, cfg)
}

// ExecuteReposShow prints one repository and its scan history.
func ExecuteReposShow(ctx context.Context, cfg *contract.Config, id int64) error {
	cl, err := NewClients(cfg)
	if err != nil {
		return err
	}
	detail, err := cl.Repos.GetRepository(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load repository %d: %w", id, err)
	}
	return outwriter.NewOutWriter().WriteRepositoryDetail(detail, cfg)
}

// ExecuteReposAdd imports a GitHub repository by id or full name.
func ExecuteReposAdd(ctx context.Context, cfg *contract.Config, ref string) error {
	cl, err := NewClients(cfg)
	if err != nil {
		return err
	}
	added, err := AddRepository(ctx, cl, ref)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "✅ Added repository #%d %s\n", added.ID, added.FullName)
	return nil
}

// ExecuteReposDelete removes a registered repository.
func ExecuteReposDelete(ctx context.Context, cfg *contract.Config, id int64) error {
	cl, err := NewClients(cfg)
	if err != nil {
		return err
	}
	if err := cl.Repos.DeleteRepository(ctx, id); err != nil {
		return fmt.Errorf("failed to delete repository %d: %w", id, err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "🗑️  Deleted repository #%d\n", id)
	return nil
}

// ExecuteReposGithub prints GitHub repositories matching the query.
func ExecuteReposGithub(ctx context.Context, cfg *contract.Config, query string) error {
	cl, err := NewClients(cfg)
	if err != nil {
		return err
	}
	repos, err := SearchGithubRepos(ctx, cl, query)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteGithubRepos(repos, cfg)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
