package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alimgiray/gitident/internal/models"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// UserLookup fetches the public profile of a GitHub user
type UserLookup interface {
	LookupUser(ctx context.Context, username string) (models.UserRecord, error)
}

type GitHubUserService struct {
	client *github.Client
}

// NewGitHubUserService creates a lookup client. An empty token performs anonymous
// requests; a non-default apiURL targets a GitHub Enterprise server.
func NewGitHubUserService(token, apiURL string) (*GitHubUserService, error) {
	client := createGitHubClient(token)

	if apiURL != "" && apiURL != models.DefaultAPIBaseURL {
		enterpriseClient, err := client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		client = enterpriseClient
	}

	return NewGitHubUserServiceWithClient(client), nil
}

// NewGitHubUserServiceWithClient wraps an already configured go-github client
func NewGitHubUserServiceWithClient(client *github.Client) *GitHubUserService {
	return &GitHubUserService{client: client}
}

// createGitHubClient creates a GitHub client with the provided token
func createGitHubClient(token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return github.NewClient(tc)
}

// APIBaseURL returns the REST endpoint prefix, used to strip self-referencing URLs from records
func (s *GitHubUserService) APIBaseURL() string {
	return s.client.BaseURL.String()
}

// LookupUser retrieves the user profile. The raw response body is kept so that
// every field the API returns ends up in the record. Failures are *LookupFailure.
func (s *GitHubUserService) LookupUser(ctx context.Context, username string) (models.UserRecord, error) {
	req, err := s.client.NewRequest(http.MethodGet, "users/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, &LookupFailure{Username: username, Message: err.Error(), Err: err}
	}

	var body bytes.Buffer
	if _, err := s.client.Do(ctx, req, &body); err != nil {
		return nil, newLookupFailure(username, err)
	}

	record, err := models.DecodeUserRecord(body.Bytes())
	if err != nil {
		return nil, &LookupFailure{Username: username, Status: http.StatusOK, Message: err.Error(), Err: err}
	}
	return record, nil
}

func newLookupFailure(username string, err error) *LookupFailure {
	failure := &LookupFailure{Username: username, Message: err.Error(), Err: err}

	var resp *http.Response
	var message string

	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &errResp):
		resp, message = errResp.Response, errResp.Message
	case errors.As(err, &rateErr):
		resp, message = rateErr.Response, rateErr.Message
	case errors.As(err, &abuseErr):
		resp, message = abuseErr.Response, abuseErr.Message
	}

	if resp != nil {
		failure.Status = resp.StatusCode
		if strings.TrimSpace(message) == "" {
			message = http.StatusText(resp.StatusCode)
		}
		failure.Message = message
	}
	return failure
}
