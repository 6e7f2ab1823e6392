// Package github fetches real repository metadata when a token is
// configured. Commit history is always synthesized by internal/history;
// this client only enriches the repository record itself.
package github

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// Metadata is the subset of repository details the intake flow uses.
type Metadata struct {
	Description   string
	DefaultBranch string
	HTMLURL       string
}

// MetadataFetcher is implemented by Client and faked in tests.
type MetadataFetcher interface {
	GetRepositoryMetadata(ctx context.Context, owner, name string) (*Metadata, error)
}

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client.
func NewClient(token string, logger *slog.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
	}
}

// GetRepositoryMetadata fetches repository details from the GitHub API.
func (c *Client) GetRepositoryMetadata(ctx context.Context, owner, name string) (*Metadata, error) {
	c.logger.Debug("Fetching repository metadata", "owner", owner, "repo", name)

	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		HTMLURL:       repo.GetHTMLURL(),
	}, nil
}
