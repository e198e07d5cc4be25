package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

// PutFile creates or updates a file through the contents API and returns the
// new blob SHA. go-github applies the base64 transport encoding to req.Content.
//
// GitHub answers 409 when req.SHA no longer matches the live file and 422 when
// the file exists but no SHA was supplied; both are reported as
// model.ErrStaleRevision.
func (c *Client) PutFile(ctx context.Context, owner, repo, path string, req driven.FileWrite) (string, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(req.Message),
		Content: req.Content,
	}

	var (
		result *gh.RepositoryContentResponse
		resp   *gh.Response
		err    error
	)
	if req.SHA == "" {
		result, resp, err = c.gh.Repositories.CreateFile(ctx, owner, repo, path, opts)
	} else {
		opts.SHA = gh.Ptr(req.SHA)
		result, resp, err = c.gh.Repositories.UpdateFile(ctx, owner, repo, path, opts)
	}
	if err != nil {
		if isStaleRevision(err) {
			return "", fmt.Errorf("writing %s to %s/%s: %w: %w", path, owner, repo, model.ErrStaleRevision, err)
		}
		return "", fmt.Errorf("writing %s to %s/%s: %w", path, owner, repo, err)
	}

	logRateLimit(resp, owner+"/"+repo+"/contents")

	return result.GetContent().GetSHA(), nil
}

// isStaleRevision reports whether err is GitHub rejecting a write because the
// supplied SHA is missing or out of date.
func isStaleRevision(err error) bool {
	var ghErr *gh.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return false
	}

	switch ghErr.Response.StatusCode {
	case http.StatusConflict:
		return true
	case http.StatusUnprocessableEntity:
		return strings.Contains(strings.ToLower(ghErr.Message), "sha")
	default:
		return false
	}
}
