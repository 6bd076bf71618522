// Package stats fetches best-effort public statistics for a linked GitHub
// handle. Lookups are bounded by a short timeout and never fail the caller:
// any error degrades to an unavailable result.
package stats

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/asmolyar/webpen/internal/logging"
)

// Stats is the enrichment attached to a public profile. Available is false
// when the lookup timed out or failed; the counters are then meaningless.
type Stats struct {
	Available   bool `json:"available"`
	Followers   int  `json:"followers"`
	PublicRepos int  `json:"public_repos"`
}

// Fetcher is implemented by anything that can look up stats for a handle.
type Fetcher interface {
	Fetch(ctx context.Context, handle string) Stats
}

type GitHubFetcher struct {
	client  *github.Client
	timeout time.Duration
	logger  logging.Logger
}

// NewGitHubFetcher builds a fetcher against the GitHub users API. baseURL
// overrides the API endpoint (used in tests and for mirrors); empty means
// the public api.github.com.
func NewGitHubFetcher(baseURL string, timeout time.Duration, logger logging.Logger) (*GitHubFetcher, error) {

	client := github.NewClient(&http.Client{Timeout: timeout})

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = u
	}

	return &GitHubFetcher{
		client:  client,
		timeout: timeout,
		logger:  logger.With("module", "stats"),
	}, nil
}

// Fetch returns the handle's follower and public repository counts. On any
// error, including a timeout, it returns an unavailable Stats and only logs
// a warning; it never retries.
func (f *GitHubFetcher) Fetch(ctx context.Context, handle string) Stats {

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	user, _, err := f.client.Users.Get(ctx, handle)
	if err != nil {
		f.logger.Warn(ctx, "stats lookup failed", "handle", handle, "error", err.Error())
		return Stats{}
	}

	return Stats{
		Available:   true,
		Followers:   user.GetFollowers(),
		PublicRepos: user.GetPublicRepos(),
	}
}
