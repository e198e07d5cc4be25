// Package github implements the ContentStore port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ContentStore = (*Client)(nil)

// Client implements the driven.ContentStore port against the GitHub
// repository contents API.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. revalidateTransport (every cached GET is revalidated with the server)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  4. go-github (GitHub REST API client with bearer token auth)
//
// apiURL selects a GitHub Enterprise Server API root; empty means github.com.
func NewClient(token, apiURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(revalidateTransport{next: cacheTransport})
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	if apiURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URL %q: %w", apiURL, err)
		}
	}

	return &Client{gh: client}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient).WithAuthToken(token)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// revalidateTransport marks GET requests max-age=0 so httpcache never serves
// a cached contents response without an If-None-Match round trip. The blob
// SHA must reflect the live file; a 304 still costs no rate limit.
type revalidateTransport struct {
	next http.RoundTripper
}

func (t revalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Cache-Control", "max-age=0")
	return t.next.RoundTrip(clone)
}

// GetFile retrieves a single file and decodes its base64 transport encoding.
// Returns nil, nil if the path does not exist (404).
func (c *Client) GetFile(ctx context.Context, owner, repo, path string) (*driven.RemoteFile, error) {
	fileContent, dirContent, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			slog.Debug("github file not found", "repo", owner+"/"+repo, "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("fetching %s from %s/%s: %w", path, owner, repo, err)
	}

	logRateLimit(resp, owner+"/"+repo+"/contents")

	if fileContent == nil {
		return nil, fmt.Errorf("fetching %s from %s/%s: path is a directory with %d entries", path, owner, repo, len(dirContent))
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding %s from %s/%s: %w", path, owner, repo, err)
	}

	return &driven.RemoteFile{
		Content: []byte(content),
		SHA:     fileContent.GetSHA(),
	}, nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
